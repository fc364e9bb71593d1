package media

import "strconv"

// PickFormat chooses a format for a quality preference. formats must be
// ordered worst to best. quality is "best", "worst" or a height such as
// "720": the best format at that height wins, then the best one below it,
// then the worst format overall.
func PickFormat(formats []Format, quality string) (Format, bool) {
	if len(formats) == 0 {
		return Format{}, false
	}
	switch quality {
	case "", "best":
		return formats[len(formats)-1], true
	case "worst":
		return formats[0], true
	}

	height, err := strconv.Atoi(quality)
	if err != nil {
		return formats[len(formats)-1], true
	}

	below := -1
	for i := len(formats) - 1; i >= 0; i-- {
		h := formats[i].Height
		if h == height {
			return formats[i], true
		}
		if h > 0 && h < height && below < 0 {
			below = i
		}
	}
	if below >= 0 {
		return formats[below], true
	}
	return formats[0], true
}
