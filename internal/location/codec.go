// Package location converts between structured ticket locations and the single
// canonical display string the ticket store persists. The store's schema
// predates structured location support, so the denormalized string is kept and
// this package isolates the encoding debt in one place.
package location

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"

	apperrors "github.com/campusworks/repair-service/pkg/util/errorutil"
)

// Kind tags a location as inside a directory building or outdoors.
type Kind string

const (
	KindIndoor  Kind = "indoor"
	KindOutdoor Kind = "outdoor"
)

// Location is the structured form a ticket edit form works with.
type Location struct {
	Kind     Kind
	Building string
	Floor    string
	Room     string
	Text     string
}

const (
	outdoorPrefix = "ภายนอกอาคาร:"
	floorMarker   = "ชั้น"
	roomMarker    = "ห้อง"
)

var (
	floorPattern = regexp.MustCompile(floorMarker + `\s*(\d+)`)
	roomPattern  = regexp.MustCompile(roomMarker + `\s*(\S+)`)
	floorForm    = regexp.MustCompile(`^\d+$`)
)

// Encode renders the canonical display string. Indoor locations require
// building, floor and room; outdoor locations require the free text. Floor
// and room must also survive a later Decode: the stored-string grammar can
// only recover numeric floors and single-token rooms, so anything else is
// rejected here instead of silently degrading in storage.
func Encode(loc Location) (string, error) {
	switch loc.Kind {
	case KindIndoor:
		building := strings.TrimSpace(loc.Building)
		floor := strings.TrimSpace(loc.Floor)
		room := strings.TrimSpace(loc.Room)

		invalid := map[string]any{}
		if building == "" {
			invalid["building"] = "required"
		}
		switch {
		case floor == "":
			invalid["floor"] = "required"
		case !floorForm.MatchString(floor):
			invalid["floor"] = "must be a number"
		}
		switch {
		case room == "":
			invalid["room"] = "required"
		case strings.ContainsFunc(room, unicode.IsSpace):
			invalid["room"] = "must not contain spaces"
		}
		if len(invalid) > 0 {
			return "", apperrors.NewValidationError("invalid indoor location", invalid)
		}
		return fmt.Sprintf("%s %s %s %s %s",
			building,
			floorMarker, floor,
			roomMarker, room), nil
	case KindOutdoor:
		if strings.TrimSpace(loc.Text) == "" {
			return "", apperrors.NewValidationError("outdoor location text required", map[string]any{"text": "required"})
		}
		return outdoorPrefix + " " + strings.TrimSpace(loc.Text), nil
	default:
		return "", apperrors.NewValidationError("unknown location kind", map[string]any{"kind": string(loc.Kind)})
	}
}

// Decode reconstructs the structured form from a stored string. It is
// best-effort and never errors: sub-fields that cannot be recovered stay
// empty, and callers must treat them as "re-selection required".
func Decode(s string, directory []string) Location {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, outdoorPrefix) {
		return Location{
			Kind: KindOutdoor,
			Text: strings.TrimSpace(strings.TrimPrefix(s, outdoorPrefix)),
		}
	}

	loc := Location{Kind: KindIndoor}
	for _, name := range directory {
		if name != "" && strings.Contains(s, name) {
			loc.Building = name
			break
		}
	}
	if m := floorPattern.FindStringSubmatch(s); m != nil {
		loc.Floor = m[1]
	}
	if m := roomPattern.FindStringSubmatch(s); m != nil {
		loc.Room = m[1]
	}
	return loc
}

// Complete reports whether every sub-field relevant to the kind was recovered.
func (l Location) Complete() bool {
	if l.Kind == KindOutdoor {
		return l.Text != ""
	}
	return l.Building != "" && l.Floor != "" && l.Room != ""
}
