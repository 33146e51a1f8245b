package cmd

import (
	"context"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spigell/ares/internal/concepts"
	"github.com/spigell/ares/internal/profile"
	"go.uber.org/zap"
)

var skillsCmd = &cobra.Command{
	Use:   "skills",
	Short: "Show known skills and their concepts, or classify the skills of a profile",
	Run: func(cmd *cobra.Command, _ []string) {
		runSkills(cmd)
	},
}

func init() {
	rootCmd.AddCommand(skillsCmd)

	skillsCmd.Flags().StringP("profile", "p", "", "resume profile file (yaml or json) to classify")
	skillsCmd.Flags().StringSlice("bootstrap", nil, "learn concepts for these skills with the configured ai provider")
}

func runSkills(cmd *cobra.Command) {
	ctx := context.Background()

	config, err := getConfig()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	log, err := newLogger(config)
	if err != nil {
		fmt.Fprintf(os.Stderr, "creating a logger: %s\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	c, err := newCollaborators(ctx, config, log)
	if err != nil {
		log.Fatal("loading concepts", zap.Error(err))
	}
	inv := c.inventory

	toBootstrap, _ := cmd.Flags().GetStringSlice("bootstrap")
	for _, skill := range toBootstrap {
		list, err := inv.Bootstrap(ctx, skill)
		if err != nil {
			log.Error("bootstrapping concepts", zap.String("skill", skill), zap.Error(err))
			continue
		}
		log.Info("concepts ready", zap.String("skill", skill), zap.Strings("concepts", list))
	}

	path := cmd.Flag("profile").Value.String()
	if path == "" {
		skills := inv.Skills()
		sort.Strings(skills)
		for _, skill := range skills {
			logSkill(log, inv, skill)
		}
		return
	}

	p, err := profile.Load(path)
	if err != nil {
		log.Fatal("loading the profile", zap.Error(err))
	}

	for _, skill := range p.SkillNames() {
		info := p.Skills[skill]
		log.Info("profile skill",
			zap.String("skill", skill),
			zap.String("class", string(inv.Classify(skill))),
			zap.Float64("confidence", info.Confidence),
			zap.Float64("computed_confidence", profile.ComputeConfidence(info, len(p.Projects))),
			zap.String("start_depth", p.StartDepth(skill).String()),
		)
	}

	for _, flag := range profile.DetectOverclaims(p) {
		log.Warn("resume red flag", zap.String("flag", flag))
	}

	if selected, err := profile.SelectSkill(p); err == nil {
		log.Info("suggested interview skill", zap.String("skill", selected))
	}
}

func logSkill(log *zap.Logger, inv *concepts.Inventory, skill string) {
	fields := []zap.Field{
		zap.String("skill", skill),
		zap.String("class", string(inv.Classify(skill))),
		zap.String("concepts", strings.Join(inv.Concepts(skill), ", ")),
	}

	if rel, ok := inv.Relation(skill); ok {
		fields = append(fields,
			zap.Strings("prerequisites", rel.Prerequisites),
			zap.Strings("subskills", rel.Subskills),
		)
	}

	log.Info("skill", fields...)
}
