package diorama

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/Erik0810/DioramaCast/internal/models"
)

// PlaceholderImageURL is returned when no image provider credential is
// configured.
const PlaceholderImageURL = "https://via.placeholder.com/1000x1000.png?text=Configure+API+Key"

// BuildPrompt assembles the isometric-diorama art-direction brief. The
// function is pure: identical inputs (including the date) produce identical
// prompts.
func BuildPrompt(location, weather string, temperature float64, settings models.GenerationSettings, date time.Time) string {
	var b strings.Builder

	temp := strconv.FormatFloat(temperature, 'f', -1, 64)

	fmt.Fprintf(&b,
		"Present a clear, 45° top-down isometric miniature 3D cartoon scene of %s, "+
			"featuring its most iconic landmarks and architectural elements. "+
			"Use soft, refined textures with realistic PBR materials and gentle, lifelike lighting and shadows. "+
			"Integrate %s weather directly into the city environment to create an immersive atmospheric mood. "+
			"Use a clean, minimalistic composition with a soft, solid-colored background. "+
			"At the top-center, place the title \"%s\" in large bold text, "+
			"a prominent weather icon beneath it, then the date (%s) (small text) "+
			"and temperature (%s°C) (medium text). "+
			"All text must be centered with consistent spacing, and may subtly overlap the tops of the buildings. "+
			"Square 1000x1000 dimension",
		location, weather, location, date.Format("January 02, 2006"), temp)

	if settings.Style != "" {
		fmt.Fprintf(&b, ". Render the scene with a %s artistic treatment", settings.Style)
	}
	if settings.TimeOfDay != "" {
		fmt.Fprintf(&b, ". Set the lighting to match %s", settings.TimeOfDay)
	}
	if settings.Season != "" {
		fmt.Fprintf(&b, ". Dress the scenery for %s", settings.Season)
	}

	return b.String()
}
