package commands

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
)

type PlanUploadCmd struct {
	location string
	deps     *Deps
}

func NewPlanCmd(deps *Deps) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Manage location plan workbooks",
	}

	pc := &PlanUploadCmd{deps: deps}
	upload := &cobra.Command{
		Use:   "upload FILE",
		Short: "Validate and store a plan workbook for a location",
		Args:  cobra.ExactArgs(1),
		RunE:  pc.run,
	}
	upload.Flags().StringVar(&pc.location, "location", "", "Location name (default: file name without extension)")
	cmd.AddCommand(upload)

	return cmd
}

func (pc *PlanUploadCmd) run(cmd *cobra.Command, args []string) error {
	if pc.deps.App == nil {
		return errNoApp
	}

	path := args[0]
	location := pc.location
	if location == "" {
		location = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}

	if err := pc.deps.App.Plans.SavePlan(cmd.Context(), location, data); err != nil {
		return err
	}

	_, err = fmt.Fprintf(pc.deps.Output, "plan for %s stored\n", location)
	return err
}
