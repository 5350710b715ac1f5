package weather

import (
	"context"

	"github.com/pkg/errors"

	"github.com/Erik0810/DioramaCast/internal/models"
	"github.com/Erik0810/DioramaCast/internal/repositories"
	"github.com/Erik0810/DioramaCast/pkg/observe"
)

// WeatherService resolves a current-weather snapshot for a coordinate pair.
type WeatherService struct {
	repos []repositories.WeatherRepository
	l     *observe.Logger
}

func NewWeatherService(repos []repositories.WeatherRepository, l *observe.Logger) *WeatherService {
	return &WeatherService{
		repos: repos,
		l:     l,
	}
}

// FetchCurrent tries the configured providers in order and returns the first
// snapshot that succeeds. A provider failure is logged and the next provider
// is consulted; only when every provider fails does the caller see an error.
func (s *WeatherService) FetchCurrent(ctx context.Context, lat, lon float64) (models.WeatherSnapshot, error) {
	s.l.Info("starting current weather fetch", map[string]any{
		"lat":          lat,
		"lon":          lon,
		"repositories": len(s.repos),
	})

	if len(s.repos) == 0 {
		return models.WeatherSnapshot{}, errors.New("no weather providers configured")
	}

	var lastErr error
	for _, repo := range s.repos {
		s.l.Debug("fetching current weather", map[string]any{"repo": repo.Name(), "lat": lat, "lon": lon})

		snapshot, err := repo.FetchCurrent(ctx, lat, lon)
		if err != nil {
			s.l.Warning("failed to fetch current weather", map[string]any{"repo": repo.Name(), "err": err.Error()})
			lastErr = err
			if ctx.Err() != nil {
				break
			}
			continue
		}

		if snapshot.Location == "" {
			snapshot.Location = "Unknown"
		}

		s.l.Info("successfully fetched current weather", map[string]any{
			"repo":     repo.Name(),
			"location": snapshot.Location,
		})

		return snapshot, nil
	}

	return models.WeatherSnapshot{}, errors.Wrap(lastErr, "all weather providers failed")
}
