package common

import (
	"fmt"

	"github.com/jonesrussell/north-cloud/job-crawler/internal/profile"
	"github.com/spf13/cobra"
)

// Profile flag names.
const (
	FlagKeywords   = "keywords"
	FlagLocations  = "locations"
	FlagSearchDesc = "search-desc"
	FlagIncludeAll = "include-all"
)

// AddProfileFlags registers the search profile flags on cmd.
func AddProfileFlags(cmd *cobra.Command) {
	cmd.Flags().StringSliceP(FlagKeywords, "k", nil, "keywords to search for (comma-separated or repeated)")
	cmd.Flags().StringSliceP(FlagLocations, "l", nil, "locations to search in (comma-separated or repeated)")
	cmd.Flags().Bool(FlagSearchDesc, false, "also match keywords against listing descriptions")
	cmd.Flags().Bool(FlagIncludeAll, false, "require every keyword to match")
}

// ApplyProfileFlags returns base with every flag the user set on cmd applied
// over it. Unset flags keep the base value.
func ApplyProfileFlags(cmd *cobra.Command, base profile.Profile) (profile.Profile, error) {
	p := base.Clone()
	flags := cmd.Flags()

	if flags.Changed(FlagKeywords) {
		keywords, err := flags.GetStringSlice(FlagKeywords)
		if err != nil {
			return profile.Profile{}, fmt.Errorf("read --%s: %w", FlagKeywords, err)
		}
		p.Keywords = keywords
	}
	if flags.Changed(FlagLocations) {
		locations, err := flags.GetStringSlice(FlagLocations)
		if err != nil {
			return profile.Profile{}, fmt.Errorf("read --%s: %w", FlagLocations, err)
		}
		p.Locations = locations
	}
	if flags.Changed(FlagSearchDesc) {
		searchDesc, err := flags.GetBool(FlagSearchDesc)
		if err != nil {
			return profile.Profile{}, fmt.Errorf("read --%s: %w", FlagSearchDesc, err)
		}
		p.SearchDescription = searchDesc
	}
	if flags.Changed(FlagIncludeAll) {
		includeAll, err := flags.GetBool(FlagIncludeAll)
		if err != nil {
			return profile.Profile{}, fmt.Errorf("read --%s: %w", FlagIncludeAll, err)
		}
		p.RequireAllKeywords = includeAll
	}

	return p.Normalize(), nil
}
