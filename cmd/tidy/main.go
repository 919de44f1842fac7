package main

import (
	"fmt"
	"os"
	"path/filepath"

	"tidy-go/internal/app"
	"tidy-go/internal/config"

	"github.com/spf13/cobra"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// newApp reads the config and creates an App. The caller must defer app.Close().
// operation identifies the CLI command being run (e.g. "CreatePlan", "ExecutePlan").
func newApp(operation string) (*app.App, error) {
	defaults, err := app.GetDefaults()
	if err != nil {
		return nil, fmt.Errorf("getting defaults: %w", err)
	}

	cfg, err := config.ReadFromFile(defaults["config_path"])
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	a, err := app.NewApp(cfg, operation)
	if err != nil {
		return nil, fmt.Errorf("initializing app: %w", err)
	}

	return a, nil
}

var rootCmd = &cobra.Command{
	Use:   "tidy",
	Short: "Organize files into category folders",
}

// config command
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration",
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		defaults, err := app.GetDefaults()
		if err != nil {
			return fmt.Errorf("failed to get defaults: %w", err)
		}

		cfg := config.NewConfig(defaults["base_dir"])

		if err := config.Init(defaults["config_path"], cfg); err != nil {
			return fmt.Errorf("failed to initialize config: %w", err)
		}

		fmt.Printf("Configuration initialized at %s\n", defaults["config_path"])
		fmt.Printf("Base Dir: %s\n", defaults["base_dir"])
		return nil
	},
}

var configListCmd = &cobra.Command{
	Use:   "list",
	Short: "View configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		defaults, err := app.GetDefaults()
		if err != nil {
			return fmt.Errorf("failed to get defaults: %w", err)
		}

		cfg, err := config.ReadFromFile(defaults["config_path"])
		if err != nil {
			return fmt.Errorf("failed to read config: %w", err)
		}

		fmt.Printf("Configuration from %s:\n\n", defaults["config_path"])
		fmt.Printf("Base Dir:   %s\n", cfg.BaseDir)
		fmt.Printf("Log Dir:    %s\n", cfg.LogDir)
		fmt.Printf("Store:      %s\n", cfg.Store.Type)
		fmt.Printf("Classifier: %s\n", cfg.Classifier.Type)
		return nil
	},
}

// scan command
var scanCmd = &cobra.Command{
	Use:   "scan PATH",
	Short: "Scan a directory and create an organization plan",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp("CreatePlan")
		if err != nil {
			return err
		}
		defer a.Close()

		planID, err := a.CreatePlan(cmd.Context(), args[0])
		if err != nil {
			return fmt.Errorf("creating plan: %w", err)
		}

		fmt.Printf("Plan created: %s\n", planID)
		fmt.Printf("Review with 'tidy show %s', then 'tidy approve %s' to allow execution\n", planID, planID)
		return nil
	},
}

// show command
var showCmd = &cobra.Command{
	Use:   "show PLAN_ID",
	Short: "View a plan and its items",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp("GetPlan")
		if err != nil {
			return err
		}
		defer a.Close()

		plan, err := a.GetPlan(cmd.Context(), args[0])
		if err != nil {
			return err
		}

		fmt.Printf("Plan:    %s\n", plan.ID)
		fmt.Printf("Root:    %s\n", plan.RootDir)
		fmt.Printf("Status:  %s\n", plan.Status)
		fmt.Printf("Created: %s\n", plan.CreatedAt.Format("2006-01-02 15:04:05"))
		if plan.ExecutedAt != nil {
			fmt.Printf("Executed: %s\n", plan.ExecutedAt.Format("2006-01-02 15:04:05"))
		}

		if len(plan.Items) == 0 {
			fmt.Println("\nNo moves proposed.")
			return nil
		}

		fmt.Println()
		for _, item := range plan.Items {
			line := fmt.Sprintf("%-8s %s -> %s  (%s)",
				item.Status,
				filepath.Base(item.SrcPath),
				filepath.Base(filepath.Dir(item.DestPath)),
				item.Reasoning,
			)
			if item.ErrorMsg != "" {
				line += fmt.Sprintf("  [%s]", item.ErrorMsg)
			}
			fmt.Println(line)
		}
		return nil
	},
}

// approve command
var approveCmd = &cobra.Command{
	Use:   "approve PLAN_ID",
	Short: "Approve a plan for execution",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp("ApprovePlan")
		if err != nil {
			return err
		}
		defer a.Close()

		if err := a.ApprovePlan(cmd.Context(), args[0]); err != nil {
			return err
		}

		fmt.Printf("Plan approved: %s\n", args[0])
		return nil
	},
}

// execute command
var executeCmd = &cobra.Command{
	Use:   "execute PLAN_ID",
	Short: "Execute an approved plan",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp("ExecutePlan")
		if err != nil {
			return err
		}
		defer a.Close()

		results, err := a.ExecutePlan(cmd.Context(), args[0])
		for _, res := range results {
			fmt.Println(res)
		}
		if err != nil {
			return fmt.Errorf("executing plan: %w", err)
		}
		return nil
	},
}

// plans command
var plansCmd = &cobra.Command{
	Use:   "plans",
	Short: "List plans",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp("ListPlans")
		if err != nil {
			return err
		}
		defer a.Close()

		summaries, err := a.ListPlans(cmd.Context())
		if err != nil {
			return err
		}

		if len(summaries) == 0 {
			fmt.Println("No plans recorded.")
			return nil
		}

		for _, s := range summaries {
			fmt.Printf("%s  %-8s  %s  %d item(s)  %s\n",
				s.ID,
				s.Status,
				s.CreatedAt.Format("2006-01-02 15:04:05"),
				s.ItemCount,
				s.RootDir,
			)
		}
		return nil
	},
}

// history command
var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "View operation history",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")

		a, err := newApp("History")
		if err != nil {
			return err
		}
		defer a.Close()

		ops, err := a.History(cmd.Context(), limit)
		if err != nil {
			return err
		}

		if len(ops) == 0 {
			fmt.Println("No operations recorded.")
			return nil
		}

		for _, op := range ops {
			duration := ""
			if op.FinishedAt != nil {
				duration = op.FinishedAt.Sub(op.StartedAt).String()
			}
			fmt.Printf("#%d  %-12s  %s  %-8s  %s\n",
				op.ID,
				op.Operation,
				op.StartedAt.Format("2006-01-02 15:04:05"),
				op.Status,
				duration,
			)
		}
		return nil
	},
}

func init() {
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configListCmd)

	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(scanCmd)
	rootCmd.AddCommand(showCmd)
	rootCmd.AddCommand(approveCmd)
	rootCmd.AddCommand(executeCmd)
	rootCmd.AddCommand(plansCmd)
	rootCmd.AddCommand(historyCmd)
	historyCmd.Flags().IntP("limit", "n", 50, "Maximum number of operations to show")
}
