package domain

import (
	"errors"
	"fmt"
	"image/color"
	"math"
	"strconv"
	"strings"
)

// Party holds one poll's projection for a political party: the number of
// seats and the share of the vote it is expected to win, plus an optional
// display colour.
//
// Both numeric fields start at zero and only ever hold a value that passed
// validation. A rejected setter leaves the previous value in place.
type Party struct {
	name      string
	seats     float64
	voteShare float64
	colour    *color.RGBA
}

// NewParty creates a party with the given projections. The party is always
// returned; any projection that fails validation stays at zero and the
// rejections are joined into the returned error.
func NewParty(name string, seats, voteShare float64) (*Party, error) {
	p := &Party{name: name}
	err := errors.Join(
		p.SetProjectedSeats(seats),
		p.SetProjectedVoteShare(voteShare),
	)
	return p, err
}

// Name returns the party name.
func (p *Party) Name() string { return p.name }

// SetName renames the party.
func (p *Party) SetName(name string) { p.name = name }

// ProjectedSeats returns the projected number of seats.
func (p *Party) ProjectedSeats() float64 { return p.seats }

// SetProjectedSeats sets the projected seat count. Negative and NaN values
// are rejected with a *FieldError and the previous value is kept.
func (p *Party) SetProjectedSeats(seats float64) error {
	if math.IsNaN(seats) || seats < 0 {
		return NewFieldError(p.name, "projected_seats", seats)
	}
	p.seats = seats
	return nil
}

// ProjectedVoteShare returns the projected share of the vote in [0,1].
func (p *Party) ProjectedVoteShare() float64 { return p.voteShare }

// SetProjectedVoteShare sets the projected vote share. Values outside [0,1]
// are rejected with a *FieldError and the previous value is kept.
func (p *Party) SetProjectedVoteShare(share float64) error {
	if math.IsNaN(share) || share < 0 || share > 1 {
		return NewFieldError(p.name, "projected_vote_share", share)
	}
	p.voteShare = share
	return nil
}

// Colour returns the display colour and whether one is set.
func (p *Party) Colour() (color.RGBA, bool) {
	if p.colour == nil {
		return color.RGBA{}, false
	}
	return *p.colour, true
}

// SetColour tags the party with a display colour. A nil colour clears it.
// The colour never affects a computed value.
func (p *Party) SetColour(c color.Color) {
	if c == nil {
		p.colour = nil
		return
	}
	rgba := color.RGBAModel.Convert(c).(color.RGBA)
	p.colour = &rgba
}

// ProjectedPercentOfSeats returns the fraction of totalSeats the party is
// projected to win. A non-positive total is rejected and yields 0.
func (p *Party) ProjectedPercentOfSeats(totalSeats int) (float64, error) {
	if totalSeats <= 0 {
		return 0, NewFieldError(p.name, "total_seats", float64(totalSeats))
	}
	return p.seats / float64(totalSeats), nil
}

// TextVisualizationBySeats renders the seat projection as a star bar of
// maxStars positions, one star per seatsPerStar seats, followed by the
// party summary.
func (p *Party) TextVisualizationBySeats(maxStars int, seatsPerStar float64) (string, error) {
	return p.visualize(p.seats, maxStars, seatsPerStar)
}

// TextVisualizationByVotes renders the vote projection as a star bar of
// maxStars positions, one star per votesPerStar percentage points,
// followed by the party summary.
func (p *Party) TextVisualizationByVotes(maxStars int, votesPerStar float64) (string, error) {
	return p.visualize(p.voteShare*100, maxStars, votesPerStar)
}

func (p *Party) visualize(value float64, maxStars int, perStar float64) (string, error) {
	if maxStars <= 0 || !(perStar > 0) {
		return "", &VisualizationError{MaxStars: maxStars, PerStar: perStar}
	}
	if markers := math.Floor(value / perStar); markers > MaxBarMarkers {
		return "", &VisualizationError{MaxStars: maxStars, PerStar: perStar, Markers: markers}
	}
	return StarBar(value, perStar, maxStars) + p.String(), nil
}

// String returns "name (NN% of votes, S seats)", with the colour channels
// inserted as "[r,g,b], " after the opening parenthesis when a colour is set.
// NN is the single-precision share times 100, rounded half up.
func (p *Party) String() string {
	var b strings.Builder
	b.WriteString(p.name)
	b.WriteString(" (")
	if p.colour != nil {
		fmt.Fprintf(&b, "[%d,%d,%d], ", p.colour.R, p.colour.G, p.colour.B)
	}
	fmt.Fprintf(&b, "%d%% of votes, %s seats)", percentOfVotes(p.voteShare), formatSeats(p.seats))
	return b.String()
}

// percentOfVotes scales share to a percentage and rounds halves up, in
// single precision: 0.285 prints as 29, not the 28 float64 would give.
func percentOfVotes(share float64) int64 {
	// The outer conversion keeps the product from being fused with the add.
	pct := float32(float32(share) * 100)
	return int64(math.Floor(float64(pct + 0.5)))
}

// formatSeats prints the shortest single-precision form of v, always with
// a fractional part: 100 -> "100.0", 350/3 -> "116.666664".
func formatSeats(v float64) string {
	s := strconv.FormatFloat(v, 'f', -1, 32)
	if !strings.ContainsRune(s, '.') {
		s += ".0"
	}
	return s
}
