// Package geocode turns free-form place names into coordinates.
package geocode

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/chrisdamba/traveltime/internal/models"
)

var ErrLocationNotFound = errors.New("location not found")

// Resolver looks up the coordinates of an address.
type Resolver interface {
	Resolve(ctx context.Context, address string) (models.Location, error)
}

// Gazetteer resolves addresses from a fixed table of known places. Lookups
// ignore case and surrounding whitespace.
type Gazetteer struct {
	places map[string]models.Location
}

func NewGazetteer(places map[string]models.Location) *Gazetteer {
	g := &Gazetteer{places: make(map[string]models.Location, len(places))}
	for name, location := range places {
		g.places[normalize(name)] = location
	}
	return g
}

func (g *Gazetteer) Resolve(ctx context.Context, address string) (models.Location, error) {
	if err := ctx.Err(); err != nil {
		return models.Location{}, err
	}
	location, ok := g.places[normalize(address)]
	if !ok {
		// a literal "lat,lon" is accepted as its own address
		if parsed, err := models.ParseLocation(address); err == nil {
			return parsed, nil
		}
		return models.Location{}, fmt.Errorf("%w: %q", ErrLocationNotFound, address)
	}
	if !location.Valid() {
		return models.Location{}, fmt.Errorf("%w: %q has invalid coordinates %s", ErrLocationNotFound, address, location)
	}
	return location, nil
}

// Len reports the number of known places.
func (g *Gazetteer) Len() int {
	return len(g.places)
}

// Names lists the known places in their normalized form.
func (g *Gazetteer) Names() []string {
	names := make([]string, 0, len(g.places))
	for name := range g.places {
		names = append(names, name)
	}
	return names
}

func normalize(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// ResolveRoute resolves both ends of a trip. The error names the side that
// could not be found.
func ResolveRoute(ctx context.Context, r Resolver, start, destination string) (models.Location, models.Location, error) {
	from, err := r.Resolve(ctx, start)
	if err != nil {
		return models.Location{}, models.Location{}, fmt.Errorf("start point: %w", err)
	}
	to, err := r.Resolve(ctx, destination)
	if err != nil {
		return models.Location{}, models.Location{}, fmt.Errorf("destination: %w", err)
	}
	return from, to, nil
}
