package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Veraticus/audience-scope/internal/common"
	"github.com/Veraticus/audience-scope/internal/model"
	"github.com/Veraticus/audience-scope/internal/report"
)

// profileFile is the object form accepted by analyze-file. A bare JSON array
// of profiles is accepted as well.
type profileFile struct {
	GroupName string                `json:"group_name"`
	Profiles  []model.MemberProfile `json:"profiles"`
}

func analyzeFileCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "analyze-file <profiles.json>",
		Short: "Analyze member profiles from a JSON file",
		Long: `Analyze a saved batch of VK member profiles without touching the network.

The file holds either a JSON array of profiles in the groups.getMembers format
or an object {"group_name": "...", "profiles": [...]}.`,
		Args: cobra.ExactArgs(1),
		RunE: runAnalyzeFile,
	}

	cmd.Flags().String("output", "text", "Output format (text, json)")

	return cmd
}

func runAnalyzeFile(cmd *cobra.Command, args []string) error {
	outputFlag, _ := cmd.Flags().GetString("output")
	out, err := report.ParseOutput(outputFlag)
	if err != nil {
		return err
	}

	cfg, err := currentConfig()
	if err != nil {
		return err
	}
	analyzer, err := newAnalyzer(cfg)
	if err != nil {
		return err
	}

	batch, err := readProfileFile(args[0])
	if err != nil {
		return err
	}

	rep, err := analyzer.Analyze(cmd.Context(), batch.Profiles)
	if err != nil {
		return err
	}

	group := &model.Group{Name: batch.GroupName}
	if group.Name == "" {
		group.Name = strings.TrimSuffix(filepath.Base(args[0]), filepath.Ext(args[0]))
	}

	text := report.NewFormatter().FormatAnalysis(group, rep)
	return report.Write(cmd.OutOrStdout(), out, text, rep)
}

func readProfileFile(path string) (*profileFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, common.NewUserError(fmt.Sprintf("Could not read %s", path), err)
	}

	data = bytes.TrimSpace(data)
	batch := &profileFile{}
	if len(data) > 0 && data[0] == '[' {
		err = json.Unmarshal(data, &batch.Profiles)
	} else {
		err = json.Unmarshal(data, batch)
	}
	if err != nil {
		return nil, common.NewUserError(
			fmt.Sprintf("%s is not a valid profiles file", path),
			fmt.Errorf("%w: %w", common.ErrInvalidInput, err),
		)
	}
	return batch, nil
}
