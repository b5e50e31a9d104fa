// Package directory holds the country list used to translate names to codes,
// render paths and offer suggestions.
package directory

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/singleflight"

	"github.com/persistorai/borderhop/client"
	"github.com/persistorai/borderhop/internal/models"
)

// loadTimeout bounds one shared fetch of the country list.
const loadTimeout = 30 * time.Second

// Source lists every country. *client.CountryService satisfies it.
type Source interface {
	All(ctx context.Context) ([]client.Country, error)
}

// Directory loads the country list once and keeps it for the process lifetime.
// A failed load is not remembered; the next caller tries again.
type Directory struct {
	src   Source
	log   *logrus.Logger
	group singleflight.Group

	mu     sync.RWMutex
	loaded bool
	byCode map[string]models.Country
	byName map[string]string
	sorted []models.Country
}

// New creates an empty Directory backed by src.
func New(src Source, log *logrus.Logger) *Directory {
	return &Directory{src: src, log: log}
}

// Load fetches the country list unless it is already loaded. Concurrent
// callers share one in-flight request.
func (d *Directory) Load(ctx context.Context) error {
	if d.Loaded() {
		return nil
	}

	// The shared fetch outlives any single caller; each caller only waits
	// on its own ctx.
	ch := d.group.DoChan("all", func() (any, error) {
		if d.Loaded() {
			return nil, nil
		}

		loadCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), loadTimeout)
		defer cancel()

		countries, err := d.src.All(loadCtx)
		if err != nil {
			return nil, err
		}

		d.install(countries)

		return nil, nil
	})

	select {
	case <-ctx.Done():
		return fmt.Errorf("%w: %w", models.ErrDirectoryUnavailable, ctx.Err())
	case res := <-ch:
		if res.Err != nil {
			d.log.WithError(res.Err).WithField("shared", res.Shared).Warn("country directory load failed")
			return fmt.Errorf("%w: %w", models.ErrDirectoryUnavailable, res.Err)
		}
	}

	return nil
}

// Loaded reports whether the country list is available.
func (d *Directory) Loaded() bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.loaded
}

// Len returns the number of known countries.
func (d *Directory) Len() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.sorted)
}

func (d *Directory) install(countries []client.Country) {
	byCode := make(map[string]models.Country, len(countries))
	byName := make(map[string]string, len(countries))
	sorted := make([]models.Country, 0, len(countries))

	for _, c := range countries {
		code := strings.ToUpper(strings.TrimSpace(c.CCA3))
		if code == "" {
			continue
		}
		if _, dup := byCode[code]; dup {
			continue
		}

		name := strings.TrimSpace(c.Name.Common)
		if name == "" {
			name = code
		}

		country := models.Country{Code: code, Name: name, Area: c.Area}
		byCode[code] = country
		if _, taken := byName[strings.ToLower(name)]; !taken {
			byName[strings.ToLower(name)] = code
		}
		sorted = append(sorted, country)
	}

	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Area != sorted[j].Area {
			return sorted[i].Area > sorted[j].Area
		}
		return sorted[i].Name < sorted[j].Name
	})

	d.mu.Lock()
	d.byCode = byCode
	d.byName = byName
	d.sorted = sorted
	d.loaded = true
	d.mu.Unlock()

	d.log.WithField("countries", len(sorted)).Info("country directory loaded")
}

// Lookup resolves a common name (case-insensitive) or a cca3 code.
func (d *Directory) Lookup(nameOrCode string) (models.Country, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	if !d.loaded {
		return models.Country{}, models.ErrDirectoryUnavailable
	}

	key := strings.TrimSpace(nameOrCode)

	if c, ok := d.byCode[strings.ToUpper(key)]; ok {
		return c, nil
	}

	if code, ok := d.byName[strings.ToLower(key)]; ok {
		return d.byCode[code], nil
	}

	return models.Country{}, fmt.Errorf("%w: %q", models.ErrUnknownCountry, key)
}

// Name returns the common name for code, or code itself when unknown.
func (d *Directory) Name(code string) string {
	d.mu.RLock()
	defer d.mu.RUnlock()

	if c, ok := d.byCode[code]; ok {
		return c.Name
	}
	return code
}

// Suggestions returns every country, largest area first, ties by name.
func (d *Directory) Suggestions() []models.Country {
	d.mu.RLock()
	defer d.mu.RUnlock()

	out := make([]models.Country, len(d.sorted))
	copy(out, d.sorted)
	return out
}
