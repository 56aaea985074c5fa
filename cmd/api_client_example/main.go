package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"time"

	"weather-dashboard/api"
	"weather-dashboard/models"
	"weather-dashboard/present"
)

func main() {
	baseURL := flag.String("url", "http://localhost:8080", "Base URL of the weather service")
	location := flag.String("location", "", "Location (default: the service's settings)")
	provider := flag.String("provider", "", "Provider (default: first available)")
	token := flag.String("token", os.Getenv("WEATHER_SERVER_BEARER_TOKEN"), "Bearer token")
	flag.Parse()

	query := url.Values{}
	if *location != "" {
		query.Set("location", *location)
	}
	if *provider != "" {
		query.Set("provider", *provider)
	}

	req, err := http.NewRequest(http.MethodGet, *baseURL+"/api/forecast/daily?"+query.Encode(), http.NoBody)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating request: %v\n", err)
		os.Exit(1)
	}
	if *token != "" {
		req.Header.Set("Authorization", "Bearer "+*token)
	}

	client := &http.Client{Timeout: 10 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error fetching daily forecast: %v\n", err)
		os.Exit(1)
	}
	defer resp.Body.Close()

	var daily api.DailyResponse
	if err := json.NewDecoder(resp.Body).Decode(&daily); err != nil {
		fmt.Fprintf(os.Stderr, "Error decoding response (status %d): %v\n", resp.StatusCode, err)
		os.Exit(1)
	}

	if daily.Status == api.StatusPending {
		fmt.Printf("Forecast for %s is still loading. Try again later.\n", daily.Location)
		return
	}

	// Days are already grouped in the service's time zone; show the dates there too
	loc, err := time.LoadLocation(daily.TimeZone)
	if err != nil || daily.TimeZone == "Local" {
		loc = time.FixedZone(daily.TimeZone, daily.UTCOffset)
	}

	err = present.Daily(os.Stdout, models.DailyForecast{
		Provider: daily.Provider,
		Location: daily.Location,
		Units:    daily.Units,
		Updated:  daily.Updated,
		Days:     daily.Days,
	}, loc)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error printing forecast: %v\n", err)
		os.Exit(1)
	}
}
