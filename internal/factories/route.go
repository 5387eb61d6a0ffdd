package factories

import (
	"fmt"
	"math"
	"math/rand"
	"time"

	"github.com/chrisdamba/traveltime/internal/models"
	"github.com/chrisdamba/traveltime/internal/service"
	"github.com/jaswdr/faker"
	"github.com/lucsky/cuid"
)

const kmPerDegree = 111.0

// RouteFactory generates plausible trip requests around the configured city.
// Known places are used for a share of the trips so the gazetteer is
// exercised alongside raw coordinates.
type RouteFactory struct {
	fake        faker.Faker
	rng         *rand.Rand
	center      models.Location
	radiusKm    float64
	places      []string
	users       []string
	namedShare  float64
	unsetRoutes float64
}

func NewRouteFactory(config *models.Config, places []string) *RouteFactory {
	seed := config.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	fake := faker.NewWithSeed(rand.NewSource(seed))

	users := make([]string, 5)
	for i := range users {
		users[i] = cuid.New()
	}

	return &RouteFactory{
		fake:        fake,
		rng:         rand.New(rand.NewSource(seed + 1)),
		center:      models.Location{Lat: config.CityLat, Lon: config.CityLon},
		radiusKm:    config.UrbanRadius,
		places:      places,
		users:       users,
		namedShare:  0.5,
		unsetRoutes: 0.1,
	}
}

func (rf *RouteFactory) CreateRequest() service.Request {
	req := service.Request{
		UserID:        rf.users[rf.fake.IntBetween(0, len(rf.users)-1)],
		DayOfWeek:     rf.fake.RandomStringElement(models.Weekdays),
		DepartureTime: fmt.Sprintf("%02d:%02d", rf.fake.IntBetween(0, 23), rf.fake.IntBetween(0, 59)),
		RouteType:     rf.routeType(),
	}

	if len(rf.places) >= 2 && rf.rng.Float64() < rf.namedShare {
		req.StartPoint = rf.fake.RandomStringElement(rf.places)
		req.Destination = req.StartPoint
		for req.Destination == req.StartPoint {
			req.Destination = rf.fake.RandomStringElement(rf.places)
		}
		return req
	}

	start, dest := rf.randomLocation(), rf.randomLocation()
	req.StartLocation, req.DestLocation = &start, &dest
	req.StartPoint, req.Destination = start.String(), dest.String()
	return req
}

func (rf *RouteFactory) routeType() models.RouteType {
	if rf.rng.Float64() < rf.unsetRoutes {
		return models.RouteTypeUnset
	}
	return models.RouteTypes[rf.fake.IntBetween(0, len(models.RouteTypes)-1)]
}

// randomLocation picks a point inside the square that bounds the urban radius.
func (rf *RouteFactory) randomLocation() models.Location {
	latRange := rf.radiusKm / kmPerDegree
	lonRange := latRange / math.Cos(rf.center.Lat*math.Pi/180.0)

	return models.Location{
		Lat: rf.center.Lat + (rf.rng.Float64()*2-1)*latRange,
		Lon: rf.center.Lon + (rf.rng.Float64()*2-1)*lonRange,
	}
}
