package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var weatherCmd = &cobra.Command{
	Use:   "weather",
	Short: "Current weather at the farm",
	Long: "Current weather at the farm. Coordinates come from the profile pin\n" +
		"when one is saved, otherwise from IP geolocation with a Kerala fallback.",
	RunE: func(cmd *cobra.Command, args []string) error {
		client, locator := shared.newWeather()
		if !client.Enabled() {
			fmt.Println("Weather is disabled: no OpenWeatherMap API key configured.")
			return nil
		}

		ctx := context.Background()
		profile, err := shared.profiles.Get()
		if err != nil {
			return err
		}
		var lat, lon float64
		if profile.HasCoordinates() {
			lat, lon = profile.Lat, profile.Lon
		} else {
			lat, lon = locator.Locate(ctx)
		}

		cond, err := client.Current(ctx, lat, lon, shared.cfg.Language.Farmer)
		if err != nil {
			// Collaborator failure: placeholder, not a crash.
			shared.log.Warn().Err(err).Msg("weather unavailable")
			fmt.Println("Weather data unavailable")
			return nil
		}
		fmt.Printf("Location: %.4f, %.4f\n", lat, lon)
		fmt.Printf("Weather:  %s\n", cond.Summary())
		fmt.Printf("Humidity: %.0f%%  Wind: %.1f m/s\n", cond.HumidityPct, cond.WindSpeed)
		return nil
	},
}
