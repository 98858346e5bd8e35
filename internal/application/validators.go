package application

import (
	"fmt"
	"image/color"
	"math"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/ahrav/go-polltrack/internal/domain"
)

// shareTolerance absorbs float rounding when vote shares from a file are
// summed.
const shareTolerance = 1e-9

// RegisterElectionValidators registers custom validation functions with
// the validator instance for use in election configuration validation.
// RegisterElectionValidators returns an error if any validator registration
// fails.
func RegisterElectionValidators(v *validator.Validate) error {
	if err := v.RegisterValidation("semver", validateSemver); err != nil {
		return fmt.Errorf("failed to register semver validator: %w", err)
	}

	// Party names are entered comma-separated on the command line, so a
	// comma can never be part of one.
	if err := v.RegisterValidation("partyname", validatePartyName); err != nil {
		return fmt.Errorf("failed to register partyname validator: %w", err)
	}

	if err := v.RegisterValidation("rgbhex", validateRGBHex); err != nil {
		return fmt.Errorf("failed to register rgbhex validator: %w", err)
	}

	return nil
}

// validateSemver validates that a string follows semantic versioning
// format (X.Y.Z where X, Y, Z are non-negative integers).
func validateSemver(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	var major, minor, patch int
	n, err := fmt.Sscanf(value, "%d.%d.%d", &major, &minor, &patch)
	return err == nil && n == 3 && major >= 0 && minor >= 0 && patch >= 0
}

// validatePartyName rejects blank names and names containing commas.
func validatePartyName(fl validator.FieldLevel) bool {
	name := fl.Field().String()
	return strings.TrimSpace(name) != "" && !strings.Contains(name, ",")
}

func validateRGBHex(fl validator.FieldLevel) bool {
	s := fl.Field().String()
	if !strings.HasPrefix(s, "#") {
		return false
	}
	_, err := ParseHexColour(s)
	return err == nil
}

// ValidateElectionSemantics performs the checks that cannot be expressed
// through struct tags: party names must be unique after case folding,
// projections must reference declared parties at most once per poll, each
// poll must fit the seat budget and the poll count must fit max_polls.
// Every violation is collected into a single *domain.ValidationError.
func ValidateElectionSemantics(config *ElectionConfig) error {
	verr := domain.NewValidationError("Election")

	declared := make(map[string]string, len(config.Parties))
	for _, party := range config.Parties {
		key := domain.FoldName(party.Name)
		if first, exists := declared[key]; exists {
			verr.AddError(fmt.Sprintf("duplicate party %q: already declared as %q", party.Name, first))
			continue
		}
		declared[key] = party.Name
	}

	maxPolls := config.Election.MaxPolls
	if maxPolls > 0 && len(config.Polls) > maxPolls {
		verr.AddError(fmt.Sprintf("election declares %d polls but max_polls is %d", len(config.Polls), maxPolls))
	}

	for _, poll := range config.Polls {
		seen := make(map[string]struct{}, len(poll.Projections))
		var seats, shares float64
		for _, proj := range poll.Projections {
			key := domain.FoldName(proj.Party)
			if _, ok := declared[key]; !ok {
				verr.AddError(fmt.Sprintf("poll %q references undeclared party %q", poll.Name, proj.Party))
			}
			if _, dup := seen[key]; dup {
				verr.AddError(fmt.Sprintf("poll %q projects party %q more than once", poll.Name, proj.Party))
			}
			seen[key] = struct{}{}
			seats += proj.Seats
			shares += proj.VoteShare
		}
		if seats > float64(config.Election.TotalSeats) {
			verr.AddError(fmt.Sprintf("poll %q projects %g seats, more than the %d available",
				poll.Name, seats, config.Election.TotalSeats))
		}
		if shares > 1+shareTolerance {
			verr.AddError(fmt.Sprintf("poll %q vote shares sum to %g, more than 1", poll.Name, shares))
		}
	}

	if verr.HasErrors() {
		return verr
	}
	return nil
}

// ParseHexColour converts "#rgb" or "#rrggbb" into an opaque colour.
func ParseHexColour(s string) (color.RGBA, error) {
	hex := strings.TrimPrefix(s, "#")
	if len(hex) == 3 {
		hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]})
	}
	if len(hex) != 6 {
		return color.RGBA{}, fmt.Errorf("colour %q: want #rgb or #rrggbb", s)
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return color.RGBA{}, fmt.Errorf("colour %q: %w", s, err)
	}
	return color.RGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: math.MaxUint8}, nil
}
