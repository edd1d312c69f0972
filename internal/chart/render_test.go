package chart

import (
	"bytes"
	"errors"
	"testing"

	gochart "github.com/wcharczuk/go-chart/v2"

	"github.com/JonMunkholm/wildlife/internal/core"
)

func sampleProjection() core.Projection {
	return core.Aggregate(core.View{
		{Species: "Heron", Adults: 2, Nests: 1, Total: 3},
		{Species: "Duck", Total: 0},
		{Species: "Swan", Adults: 2, Nests: 1, Total: 6},
	})
}

func TestParseKind(t *testing.T) {
	for _, k := range Kinds {
		got, err := ParseKind(string(k))
		if err != nil || got != k {
			t.Errorf("ParseKind(%q) = %q, %v", k, got, err)
		}
	}

	if _, err := ParseKind("radar"); !errors.Is(err, ErrUnknownChart) {
		t.Errorf("ParseKind(radar) error = %v, want ErrUnknownChart", err)
	}
	if got := core.MapError(ErrUnknownChart).Code; got != "REQ002" {
		t.Errorf("MapError code = %s, want REQ002", got)
	}
}

func TestRender(t *testing.T) {
	projections := map[string]core.Projection{
		"sample":       sampleProjection(),
		"empty":        core.Aggregate(nil),
		"single":       core.Aggregate(core.View{{Species: "Heron", Total: 4, Adults: 4}}),
		"all not seen": core.Aggregate(core.View{{Species: "Duck"}, {Species: "Coot"}}),
	}

	for name, p := range projections {
		for _, k := range Kinds {
			t.Run(name+"/"+string(k), func(t *testing.T) {
				out, err := RenderBytes(k, p, FormatSVG, Size{})
				if err != nil {
					t.Fatalf("RenderBytes() error = %v", err)
				}
				if !bytes.Contains(out, []byte("<svg")) {
					t.Errorf("output is not SVG: %.80s", out)
				}
			})
		}
	}
}

func TestRender_PNG(t *testing.T) {
	out, err := RenderBytes(KindSeen, sampleProjection(), FormatPNG, Size{Width: 200, Height: 200})
	if err != nil {
		t.Fatalf("RenderBytes() error = %v", err)
	}
	if !bytes.HasPrefix(out, []byte("\x89PNG")) {
		t.Error("output is not PNG")
	}
}

func TestRender_UnknownKind(t *testing.T) {
	var buf bytes.Buffer
	if err := Render(&buf, Kind("radar"), sampleProjection(), FormatSVG, Size{}); !errors.Is(err, ErrUnknownChart) {
		t.Errorf("error = %v, want ErrUnknownChart", err)
	}
}

func TestLineChart_Ticks(t *testing.T) {
	tests := []struct {
		name      string
		labels    []string
		totals    []int
		wantTicks int
	}{
		{"empty", nil, nil, 0},
		{"one record", []string{"Swan"}, []int{6}, 0},
		{"two records", []string{"Heron", "Swan"}, []int{3, 6}, 2},
		{"too many to label", make([]string, maxTickLabels+1), make([]int, maxTickLabels+1), 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ch := lineChart(tt.labels, tt.totals, DefaultSize)
			if got := len(ch.XAxis.Ticks); got != tt.wantTicks {
				t.Errorf("ticks = %d, want %d", got, tt.wantTicks)
			}
			var buf bytes.Buffer
			if err := ch.Render(gochart.SVG, &buf); err != nil {
				t.Errorf("Render() error = %v", err)
			}
		})
	}
}

func TestAxisMax(t *testing.T) {
	tests := []struct {
		values []int
		want   float64
	}{
		{nil, 1},
		{[]int{0, 0}, 1},
		{[]int{3, 9, 2}, 9},
	}
	for _, tt := range tests {
		if got := axisMax(tt.values); got != tt.want {
			t.Errorf("axisMax(%v) = %v, want %v", tt.values, got, tt.want)
		}
	}
}

func TestFormatContentType(t *testing.T) {
	if got := FormatSVG.ContentType(); got != "image/svg+xml" {
		t.Errorf("SVG content type = %q", got)
	}
	if got := FormatPNG.ContentType(); got != "image/png" {
		t.Errorf("PNG content type = %q", got)
	}
}
