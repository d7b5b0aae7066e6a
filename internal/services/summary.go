package services

import (
	"context"
	"errors"

	"charging-route-service/internal/domain"
	"charging-route-service/internal/ports"
)

// SummaryBuilder turns a station path into an itinerary with totals.
type SummaryBuilder struct {
	oracle             ports.DistanceOracle
	chargingMinPerStop float64
}

func NewSummaryBuilder(oracle ports.DistanceOracle, chargingMinPerStop float64) *SummaryBuilder {
	if chargingMinPerStop < 0 {
		chargingMinPerStop = 0
	}
	return &SummaryBuilder{oracle: oracle, chargingMinPerStop: chargingMinPerStop}
}

// Summarize resolves every leg of origin -> hops... -> dest and the direct
// origin -> dest reference leg. Charging time is a flat estimate per stop.
func (b *SummaryBuilder) Summarize(
	ctx context.Context,
	hops []domain.Hop,
	origin, dest domain.Point,
) (*domain.RoutePlan, error) {
	if len(hops) == 0 {
		return nil, errors.New("summarize route: path must contain at least one station")
	}

	plan := &domain.RoutePlan{
		Origin:      origin,
		Destination: dest,
		Stations:    make([]domain.Station, 0, len(hops)),
		Segments:    make([]domain.Segment, 0, len(hops)+1),
	}

	first := hops[0].Station
	_, r := b.oracle.RoadDistance(ctx, origin, first.Point())
	from := origin
	plan.Segments = append(plan.Segments, domain.Segment{
		Type:        domain.SegmentStartToStation,
		FromPoint:   &from,
		ToStation:   domain.NewStationRef(first),
		DistanceKm:  r.DistanceKm,
		DurationMin: r.DurationMin,
		Geometry:    r.Geometry,
	})
	plan.Stations = append(plan.Stations, first)

	for i := 1; i < len(hops); i++ {
		a, c := hops[i-1].Station, hops[i].Station
		_, r := b.oracle.RoadDistance(ctx, a.Point(), c.Point())
		plan.Segments = append(plan.Segments, domain.Segment{
			Type:        domain.SegmentStationToStation,
			FromStation: domain.NewStationRef(a),
			ToStation:   domain.NewStationRef(c),
			DistanceKm:  r.DistanceKm,
			DurationMin: r.DurationMin,
			Geometry:    r.Geometry,
		})
		plan.Stations = append(plan.Stations, c)
	}

	last := hops[len(hops)-1].Station
	_, r = b.oracle.RoadDistance(ctx, last.Point(), dest)
	to := dest
	plan.Segments = append(plan.Segments, domain.Segment{
		Type:        domain.SegmentStationToDestination,
		FromStation: domain.NewStationRef(last),
		ToPoint:     &to,
		DistanceKm:  r.DistanceKm,
		DurationMin: r.DurationMin,
		Geometry:    r.Geometry,
	})

	for _, s := range plan.Segments {
		plan.TotalDistanceKm += s.DistanceKm
		plan.TotalDurationMin += s.DurationMin
	}

	_, direct := b.oracle.RoadDistance(ctx, origin, dest)
	plan.DirectDistanceKm = direct.DistanceKm
	plan.DirectDurationMin = direct.DurationMin
	plan.DistanceOverheadPct = overheadPct(plan.TotalDistanceKm, direct.DistanceKm)
	plan.TimeOverheadPct = overheadPct(plan.TotalDurationMin, direct.DurationMin)

	plan.NumberOfStops = len(hops)
	plan.EstimatedChargingMin = float64(plan.NumberOfStops) * b.chargingMinPerStop
	plan.TotalTripMin = plan.TotalDurationMin + plan.EstimatedChargingMin

	return plan, nil
}

// overheadPct is 0 when the direct reference is 0.
func overheadPct(total, direct float64) float64 {
	if direct <= 0 {
		return 0
	}
	return (total - direct) / direct * 100
}
