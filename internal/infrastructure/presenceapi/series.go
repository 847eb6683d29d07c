package presenceapi

import (
	"encoding/json"
	"fmt"

	"github.com/presence-analyzer/dashboard/internal/core/domain"
)

// seriesObject is the keyed form of a chart row.
type seriesObject struct {
	Weekday string   `json:"weekday"`
	Value   *float64 `json:"value"`
	Start   *float64 `json:"start"`
	End     *float64 `json:"end"`
}

// decodeSeries reads chart rows. The service sends tuples such as
// ["Mon", 3600.0] or ["Mon", 32400, 61200]; keyed objects are accepted as
// well. Rows whose numeric cells are not numbers, like the column header of
// the presence_weekday endpoint, are skipped.
func decodeSeries(view domain.View, rows []json.RawMessage) ([]domain.SeriesPoint, error) {
	points := make([]domain.SeriesPoint, 0, len(rows))
	for i, r := range rows {
		p, ok, err := decodeRow(view, r)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i, err)
		}
		if ok {
			points = append(points, p)
		}
	}
	return points, nil
}

func decodeRow(view domain.View, r json.RawMessage) (domain.SeriesPoint, bool, error) {
	var tuple []json.RawMessage
	if err := json.Unmarshal(r, &tuple); err == nil {
		return decodeTuple(view, tuple)
	}

	var obj seriesObject
	if err := json.Unmarshal(r, &obj); err != nil {
		return domain.SeriesPoint{}, false, fmt.Errorf("unexpected row %s", string(r))
	}
	p := domain.SeriesPoint{Weekday: obj.Weekday}
	if view == domain.ViewPresenceStartEnd {
		if obj.Start == nil || obj.End == nil {
			return domain.SeriesPoint{}, false, fmt.Errorf("row %q lacks start or end", obj.Weekday)
		}
		p.Start, p.End = *obj.Start, *obj.End
		return p, true, nil
	}
	if obj.Value == nil {
		return domain.SeriesPoint{}, false, fmt.Errorf("row %q lacks value", obj.Weekday)
	}
	p.Value = *obj.Value
	return p, true, nil
}

func decodeTuple(view domain.View, tuple []json.RawMessage) (domain.SeriesPoint, bool, error) {
	want := 2
	if view == domain.ViewPresenceStartEnd {
		want = 3
	}
	if len(tuple) != want {
		return domain.SeriesPoint{}, false, fmt.Errorf("want %d cells, got %d", want, len(tuple))
	}

	var p domain.SeriesPoint
	if err := json.Unmarshal(tuple[0], &p.Weekday); err != nil {
		return domain.SeriesPoint{}, false, fmt.Errorf("weekday: %w", err)
	}

	nums := make([]float64, 0, want-1)
	for _, c := range tuple[1:] {
		var n float64
		if err := json.Unmarshal(c, &n); err != nil {
			// header row
			return domain.SeriesPoint{}, false, nil
		}
		nums = append(nums, n)
	}

	if view == domain.ViewPresenceStartEnd {
		p.Start, p.End = nums[0], nums[1]
	} else {
		p.Value = nums[0]
	}
	return p, true, nil
}
