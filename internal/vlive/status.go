package vlive

// StatusKind enumerates the lifecycle states a video page can report.
type StatusKind int

const (
	// StatusUnknown is any tag not listed below; Status.Raw keeps the tag.
	StatusUnknown StatusKind = iota
	StatusLiveOnAir
	StatusBigEventOnAir
	StatusLive
	StatusUpcoming
	StatusVODOnAir
	StatusBigEventIntro
	StatusVOD
	StatusLiveEnd
	StatusComingSoon
	StatusCanceled
	StatusOnlyApp
)

var statusTags = map[string]StatusKind{
	"LIVE_ON_AIR":      StatusLiveOnAir,
	"BIG_EVENT_ON_AIR": StatusBigEventOnAir,
	"LIVE":             StatusLive,
	"UPCOMING":         StatusUpcoming,
	"VOD_ON_AIR":       StatusVODOnAir,
	"BIG_EVENT_INTRO":  StatusBigEventIntro,
	"VOD":              StatusVOD,
	"LIVE_END":         StatusLiveEnd,
	"COMING_SOON":      StatusComingSoon,
	"CANCELED":         StatusCanceled,
	"ONLY_APP":         StatusOnlyApp,
}

func (k StatusKind) String() string {
	for tag, kind := range statusTags {
		if kind == k {
			return tag
		}
	}
	return "UNKNOWN"
}

// Status is the resolved lifecycle state of one video. Raw is the tag as
// derived from the page, for known and unknown kinds alike.
type Status struct {
	Kind StatusKind
	Raw  string
}

func (s Status) String() string {
	return s.Raw
}

// ParseStatus maps a raw tag to its Status.
func ParseStatus(raw string) Status {
	if kind, ok := statusTags[raw]; ok {
		return Status{Kind: kind, Raw: raw}
	}
	return Status{Kind: StatusUnknown, Raw: raw}
}

// ResolveStatus derives the status from the page's official video block.
// Only the LIVE type carries a separate upcoming flag; every other type is
// its own status.
func ResolveStatus(v OfficialVideo) Status {
	if v.Type == "LIVE" {
		if v.UpcomingYn {
			return Status{Kind: StatusUpcoming, Raw: "UPCOMING"}
		}
		return Status{Kind: StatusLive, Raw: "LIVE"}
	}
	return ParseStatus(v.Type)
}
