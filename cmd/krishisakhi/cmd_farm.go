package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jeanpaul/krishisakhi/internal/farm"
)

var profileFlags farm.Profile

var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Manage the farmer profile",
}

var profileSetCmd = &cobra.Command{
	Use:   "set",
	Short: "Save the farmer profile (replaces the stored record)",
	RunE: func(cmd *cobra.Command, args []string) error {
		saved, err := shared.profiles.Save(profileFlags)
		if err != nil {
			return err
		}
		fmt.Println("Profile saved.")
		printProfile(saved)
		return nil
	},
}

var profileShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the stored farmer profile",
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := shared.profiles.Get()
		if err != nil {
			return err
		}
		if p.Empty() {
			fmt.Println("No profile saved yet. Use 'krishisakhi profile set' first.")
			return nil
		}
		printProfile(p)
		return nil
	},
}

func printProfile(p farm.Profile) {
	show := func(label, value string) {
		if value != "" {
			fmt.Printf("  %-10s %s\n", label, value)
		}
	}
	show("Name:", p.Name)
	show("Location:", p.Location)
	show("Crop:", p.Crop)
	show("Soil:", p.Soil)
	show("Land:", p.Land)
	if p.HasCoordinates() {
		fmt.Printf("  %-10s %.4f, %.4f\n", "Pin:", p.Lat, p.Lon)
	}
}

var logN int

var logCmd = &cobra.Command{
	Use:   "log",
	Short: "Record and view farm activities",
}

var logAddCmd = &cobra.Command{
	Use:   "add <activity>",
	Short: "Append an activity (e.g. sowing, irrigation, spraying)",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		entry, err := shared.activity.Append(strings.Join(args, " "))
		if err != nil {
			return err
		}
		fmt.Printf("Logged: %s - %s\n", entry.Time, entry.Activity)
		return nil
	},
}

var logListCmd = &cobra.Command{
	Use:   "list",
	Short: "Show recent activities, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		entries := shared.activity.Recent(logN)
		if len(entries) == 0 {
			fmt.Println("No activities logged yet.")
			return nil
		}
		for _, e := range entries {
			fmt.Printf("%s - %s\n", e.Time, e.Activity)
		}
		return nil
	},
}

var adviceCmd = &cobra.Command{
	Use:   "advice",
	Short: "Advisory based on the latest logged activity",
	RunE: func(cmd *cobra.Command, args []string) error {
		advice := shared.engine.AdviseLog(shared.activity)
		fmt.Println(advice.Message)
		if recent := shared.activity.Recent(farm.AdvisoryRecent); len(recent) > 0 {
			fmt.Println("\nBased on:")
			for _, e := range recent {
				fmt.Printf("  %s - %s\n", e.Time, e.Activity)
			}
		}
		return nil
	},
}

func init() {
	profileSetCmd.Flags().StringVar(&profileFlags.Name, "name", "", "farmer name")
	profileSetCmd.Flags().StringVar(&profileFlags.Location, "location", "", "place name")
	profileSetCmd.Flags().StringVar(&profileFlags.Crop, "crop", "", "main crop")
	profileSetCmd.Flags().StringVar(&profileFlags.Soil, "soil", "", "soil type")
	profileSetCmd.Flags().StringVar(&profileFlags.Land, "land", "", "land size in acres")
	profileSetCmd.Flags().Float64Var(&profileFlags.Lat, "lat", 0, "farm latitude")
	profileSetCmd.Flags().Float64Var(&profileFlags.Lon, "lon", 0, "farm longitude")
	profileCmd.AddCommand(profileSetCmd, profileShowCmd)

	logListCmd.Flags().IntVarP(&logN, "count", "n", farm.DefaultRecent, "entries to show")
	logCmd.AddCommand(logAddCmd, logListCmd)
}
