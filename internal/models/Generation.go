package models

import "fmt"

// Preset values accepted in GenerationSettings. An empty string means the
// corresponding modifier is omitted from the prompt.
var (
	AllowedStyles     = []string{"realistic", "cartoon", "watercolor", "cyberpunk"}
	AllowedTimesOfDay = []string{"sunrise", "midday", "sunset", "night"}
	AllowedSeasons    = []string{"spring", "summer", "autumn", "winter"}
)

// GenerationSettings are the optional art-direction modifiers sent by the
// client alongside a generation request.
type GenerationSettings struct {
	Style     string `json:"style,omitempty" example:"realistic"`
	TimeOfDay string `json:"time_of_day,omitempty" example:"midday"`
	Season    string `json:"season,omitempty" example:"summer"`
}

// Validate enforces allowed-value membership. There is no other validation by
// design: the values are only ever interpolated into a prompt.
func (s GenerationSettings) Validate() error {
	if err := checkMembership("style", s.Style, AllowedStyles); err != nil {
		return err
	}
	if err := checkMembership("time_of_day", s.TimeOfDay, AllowedTimesOfDay); err != nil {
		return err
	}
	return checkMembership("season", s.Season, AllowedSeasons)
}

func checkMembership(field, value string, allowed []string) error {
	if value == "" {
		return nil
	}
	for _, v := range allowed {
		if v == value {
			return nil
		}
	}
	return fmt.Errorf("invalid %s: %q", field, value)
}

// GeneratedImage is the raw image payload returned by an image provider.
type GeneratedImage struct {
	Data     []byte
	MimeType string
}

// GenerationResult is the response of the image-generation endpoint. Message
// is set on the placeholder path (missing credential) and on success.
type GenerationResult struct {
	ImageURL string `json:"image_url"`
	Prompt   string `json:"prompt"`
	Message  string `json:"message,omitempty"`
}
