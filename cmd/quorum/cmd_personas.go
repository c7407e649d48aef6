package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ahrav/go-quorum/internal/personas"
)

var personasFile string

func newPersonasCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "personas",
		Short: "List the available reviewer personas",
		Args:  cobra.NoArgs,
		RunE:  personasCommandE,
	}

	cmd.Flags().StringVar(&personasFile, "persona-file", "", "YAML persona catalog overlay")

	return cmd
}

func personasCommandE(_ *cobra.Command, _ []string) error {
	registry := personas.NewRegistry()
	if personasFile != "" {
		if err := registry.LoadFile(personasFile); err != nil {
			return fmt.Errorf("loading persona file: %w", err)
		}
	}

	defaults := make(map[string]bool)
	for _, id := range registry.Defaults() {
		defaults[id] = true
	}

	for _, id := range registry.IDs() {
		p, err := registry.Get(id)
		if err != nil {
			return err
		}
		marker := " "
		if defaults[id] {
			marker = "*"
		}
		fmt.Printf("%s %-12s %-18s strictness %.1f  %s\n", marker, p.ID, p.Name, p.Strictness, p.Description)
	}
	fmt.Println("\n* default panel member")
	return nil
}
