package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/symptomcheck/symptomcheck/internal/domain/diagnosis"
	"github.com/symptomcheck/symptomcheck/internal/domain/intake"
)

func symptomsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "symptoms",
		Short: "List the symptom catalog",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			pool, err := openPool(ctx, cfg)
			if err != nil {
				return err
			}
			defer pool.Close()

			items, err := intake.NewService(intake.NewRepoPG(pool)).Catalog(ctx)
			if err != nil {
				return fmt.Errorf("failed to load symptoms: %w", err)
			}
			printSymptoms(cmd.OutOrStdout(), items)
			return nil
		},
	}
}

func printSymptoms(w io.Writer, items []intake.Symptom) {
	if len(items) == 0 {
		fmt.Fprintln(w, "No symptoms in catalog.")
		return
	}
	fmt.Fprintf(w, "%-6s %s\n", "ID", "NAME")
	for _, s := range items {
		fmt.Fprintf(w, "%-6d %s\n", s.ID, s.Name)
	}
}

type intakeFlags struct {
	name       string
	age        int
	gender     string
	symptoms   []string
	symptomIDs []int64
}

func (f intakeFlags) submission() intake.Submission {
	return intake.Submission{
		Name:       f.name,
		Age:        f.age,
		Gender:     f.gender,
		SymptomIDs: f.symptomIDs,
		Symptoms:   f.symptoms,
	}
}

func intakeCmd() *cobra.Command {
	var f intakeFlags
	cmd := &cobra.Command{
		Use:   "intake",
		Short: "Record a patient's reported symptoms",
		Example: `  symptomcheck intake --name "Asha Rao" --age 34 --gender Female --symptom Fever --symptom Cough
  symptomcheck intake --name "Asha Rao" --age 34 --gender Female --symptom-id 3,7`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if strings.TrimSpace(f.name) == "" {
				return fmt.Errorf("--name is required")
			}
			if len(f.symptoms) == 0 && len(f.symptomIDs) == 0 {
				return fmt.Errorf("at least one --symptom or --symptom-id is required")
			}

			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			pool, err := openPool(ctx, cfg)
			if err != nil {
				return err
			}
			defer pool.Close()

			receipt, err := intake.NewService(intake.NewRepoPG(pool)).Submit(ctx, f.submission())
			if err != nil {
				return fmt.Errorf("failed to record symptoms: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Symptoms recorded for user ID: %d\n", receipt.UserID)
			return nil
		},
	}
	cmd.Flags().StringVar(&f.name, "name", "", "Patient name (lookup key)")
	cmd.Flags().IntVar(&f.age, "age", 0, fmt.Sprintf("Patient age (0-%d)", intake.MaxAge))
	cmd.Flags().StringVar(&f.gender, "gender", "", "Patient gender: "+strings.Join(intake.Genders, ", "))
	cmd.Flags().StringArrayVar(&f.symptoms, "symptom", nil, "Symptom name from the catalog (repeatable)")
	cmd.Flags().Int64SliceVar(&f.symptomIDs, "symptom-id", nil, "Symptom id from the catalog (repeatable or comma-separated)")
	return cmd
}

func diagnoseCmd() *cobra.Command {
	var userID int64
	cmd := &cobra.Command{
		Use:   "diagnose",
		Short: "Show candidate diagnoses for a patient",
		RunE: func(cmd *cobra.Command, args []string) error {
			if userID < 1 {
				return fmt.Errorf("--user-id must be a positive integer")
			}

			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			pool, err := openPool(ctx, cfg)
			if err != nil {
				return err
			}
			defer pool.Close()

			results, err := diagnosis.NewService(diagnosis.NewRepoPG(pool)).ForPatient(ctx, userID)
			if err != nil {
				return fmt.Errorf("failed to get diagnosis: %w", err)
			}
			return diagnosis.WriteReport(cmd.OutOrStdout(), results)
		},
	}
	cmd.Flags().Int64Var(&userID, "user-id", 0, "Patient user id")
	_ = cmd.MarkFlagRequired("user-id")
	return cmd
}
