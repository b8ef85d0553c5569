package ui

import (
	"encoding"
	"encoding/json"
	"fmt"
	"math"
	"reflect"
	"strconv"
	"strings"
	"time"

	"get.pme.sh/atomix/util"

	"github.com/charmbracelet/lipgloss"
)

// Displayer is an interface for displaying a string.
type Displayer interface {
	Display() string
}

func Display(v any) string {
	switch v := v.(type) {
	case Displayer:
		return v.Display()
	case string:
		return v
	case error:
		return v.Error()
	case uint, uint8, uint16, uint32, uint64:
		return DisplayUint(reflect.ValueOf(v).Uint())
	case int, int8, int16, int32, int64:
		return DisplayInt(reflect.ValueOf(v).Int())
	case float32, float64, bool:
		return fmt.Sprint(v)
	case time.Duration:
		return util.Duration(v).Display()
	case fmt.Stringer:
		return v.String()
	case encoding.TextMarshaler:
		if b, err := v.MarshalText(); err == nil {
			return string(b)
		}
	default:
		if b, err := json.Marshal(v); err == nil {
			return string(b)
		}
	}
	return fmt.Sprintf("[%T?]", v)
}

// Pair is a labelled value in a summary block.
type Pair struct {
	Key   string
	Value any
}

// RenderSummary lays out pairs as an aligned two column block.
func RenderSummary(title string, pairs ...Pair) string {
	width := 0
	for _, p := range pairs {
		width = max(width, lipgloss.Width(p.Key))
	}
	var sb strings.Builder
	sb.WriteString(KeyStyle.Render(title))
	for _, p := range pairs {
		sb.WriteString("\n  ")
		sb.WriteString(FaintStyle.Render(p.Key + strings.Repeat(" ", width-lipgloss.Width(p.Key))))
		sb.WriteString("  ")
		sb.WriteString(Display(p.Value))
	}
	return sb.String()
}

func DisplayFloatWithGran(f float64, gran float64) string {
	f *= gran
	f = math.Round(f)
	f /= gran
	return strconv.FormatFloat(f, 'f', -1, 64)
}

func DisplayUint(n uint64) string {
	const (
		K            = 1_000
		M            = 1_000 * K
		UpgradeCoeff = 2 // 500 -> 0.5K
	)

	switch {
	case n < K/UpgradeCoeff:
		return strconv.FormatUint(n, 10)
	case n < M/UpgradeCoeff:
		return DisplayFloatWithGran(float64(n)/K, 10) + "K"
	default:
		return DisplayFloatWithGran(float64(n)/M, 10) + "M"
	}
}
func DisplayInt(n int64) string {
	if n < 0 {
		return "-" + DisplayUint(uint64(-n))
	}
	return DisplayUint(uint64(n))
}
