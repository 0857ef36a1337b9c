package chatbot

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/bikehub/bikehub-backend/internal/models"
)

var leadingFloat = regexp.MustCompile(`[0-9]+(?:\.[0-9]+)?`)

// parseLeadingFloat extracts the first number from a free-text spec value
// like "45 kmpl" or "19.3 PS @ 8500 rpm". Returns false when the value
// contains no number.
func parseLeadingFloat(s string) (float64, bool) {
	m := leadingFloat.FindString(s)
	if m == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(m, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// formatAmount renders a price with comma grouping, e.g. 200000 -> "200,000".
func formatAmount(v float64) string {
	neg := v < 0
	if neg {
		v = -v
	}
	whole := int64(v)
	s := strconv.FormatInt(whole, 10)

	var b strings.Builder
	if neg {
		b.WriteByte('-')
	}
	pre := len(s) % 3
	if pre > 0 {
		b.WriteString(s[:pre])
		if len(s) > pre {
			b.WriteByte(',')
		}
	}
	for i := pre; i < len(s); i += 3 {
		b.WriteString(s[i : i+3])
		if i+3 < len(s) {
			b.WriteByte(',')
		}
	}
	return b.String()
}

// formatSpecs renders a bike's specifications as a chat answer. Empty
// fields are skipped so sparse records still read cleanly.
func formatSpecs(bike *models.Bike) string {
	specs := bike.Specs()

	var b strings.Builder
	fmt.Fprintf(&b, "Here are the specifications for %s:\n\n", bike.Name)

	engineLines := specLines([][2]string{
		{"Displacement", specs.Engine.Displacement},
		{"Max Power", specs.Engine.MaxPower},
		{"Max Torque", specs.Engine.MaxTorque},
		{"Cooling", specs.Engine.Cooling},
		{"Transmission", specs.Engine.Transmission},
	})
	if engineLines != "" {
		b.WriteString("**Engine:**\n")
		b.WriteString(engineLines)
		b.WriteString("\n")
	}

	perfLines := specLines([][2]string{
		{"Mileage", specs.Performance.Mileage},
		{"Top Speed", specs.Performance.TopSpeed},
		{"Fuel Capacity", specs.Performance.FuelCapacity},
	})
	if perfLines != "" {
		b.WriteString("**Performance:**\n")
		b.WriteString(perfLines)
		b.WriteString("\n")
	}

	dimLines := specLines([][2]string{
		{"Weight", specs.Dimensions.KerbWeight},
		{"Seat Height", specs.Dimensions.SeatHeight},
		{"Ground Clearance", specs.Dimensions.GroundClearance},
	})
	if dimLines != "" {
		b.WriteString("**Dimensions:**\n")
		b.WriteString(dimLines)
		b.WriteString("\n")
	}

	if bike.Price > 0 {
		fmt.Fprintf(&b, "**Price:** ₹%s\n", formatAmount(bike.Price))
	}

	return b.String()
}

func specLines(pairs [][2]string) string {
	var b strings.Builder
	for _, p := range pairs {
		if p[1] != "" {
			fmt.Fprintf(&b, "- %s: %s\n", p[0], p[1])
		}
	}
	return b.String()
}

// compareBikes renders a side by side comparison of two bikes, covering
// price, mileage, power, weight and ABS, followed by a recommendation.
func compareBikes(bike1, bike2 *models.Bike) string {
	specs1 := bike1.Specs()
	specs2 := bike2.Specs()

	var b strings.Builder
	fmt.Fprintf(&b, "**Comparison: %s vs %s**\n\n", bike1.Name, bike2.Name)

	if bike1.Price > 0 && bike2.Price > 0 {
		diff := bike1.Price - bike2.Price
		switch {
		case diff > 0:
			fmt.Fprintf(&b, "💰 **Price:** %s is ₹%s cheaper than %s.\n", bike2.Name, formatAmount(diff), bike1.Name)
		case diff < 0:
			fmt.Fprintf(&b, "💰 **Price:** %s is ₹%s cheaper than %s.\n", bike1.Name, formatAmount(-diff), bike2.Name)
		default:
			fmt.Fprintf(&b, "💰 **Price:** Both bikes have the same price (₹%s).\n", formatAmount(bike1.Price))
		}
	}

	mileage1, ok1 := parseLeadingFloat(specs1.Performance.Mileage)
	mileage2, ok2 := parseLeadingFloat(specs2.Performance.Mileage)
	if ok1 && ok2 {
		switch {
		case mileage1 > mileage2:
			fmt.Fprintf(&b, "⛽ **Mileage:** %s has better mileage (%s vs %s).\n", bike1.Name, specs1.Performance.Mileage, specs2.Performance.Mileage)
		case mileage2 > mileage1:
			fmt.Fprintf(&b, "⛽ **Mileage:** %s has better mileage (%s vs %s).\n", bike2.Name, specs2.Performance.Mileage, specs1.Performance.Mileage)
		default:
			fmt.Fprintf(&b, "⛽ **Mileage:** Both have similar mileage (%s).\n", specs1.Performance.Mileage)
		}
	}

	if power1, ok := parseLeadingFloat(specs1.Engine.MaxPower); ok {
		if power2, ok := parseLeadingFloat(specs2.Engine.MaxPower); ok {
			if power1 > power2 {
				fmt.Fprintf(&b, "⚡ **Power:** %s has more power (%s vs %s).\n", bike1.Name, specs1.Engine.MaxPower, specs2.Engine.MaxPower)
			} else if power2 > power1 {
				fmt.Fprintf(&b, "⚡ **Power:** %s has more power (%s vs %s).\n", bike2.Name, specs2.Engine.MaxPower, specs1.Engine.MaxPower)
			}
		}
	}

	if weight1, ok := parseLeadingFloat(specs1.Dimensions.KerbWeight); ok {
		if weight2, ok := parseLeadingFloat(specs2.Dimensions.KerbWeight); ok {
			if weight1 < weight2 {
				fmt.Fprintf(&b, "⚖️ **Weight:** %s is lighter (%s vs %s).\n", bike1.Name, specs1.Dimensions.KerbWeight, specs2.Dimensions.KerbWeight)
			} else if weight2 < weight1 {
				fmt.Fprintf(&b, "⚖️ **Weight:** %s is lighter (%s vs %s).\n", bike2.Name, specs2.Dimensions.KerbWeight, specs1.Dimensions.KerbWeight)
			}
		}
	}

	if specs1.Brakes.ABS != nil && specs2.Brakes.ABS != nil {
		abs1, abs2 := *specs1.Brakes.ABS, *specs2.Brakes.ABS
		switch {
		case abs1 && !abs2:
			fmt.Fprintf(&b, "🛡️ **Safety:** %s has ABS, %s doesn't.\n", bike1.Name, bike2.Name)
		case abs2 && !abs1:
			fmt.Fprintf(&b, "🛡️ **Safety:** %s has ABS, %s doesn't.\n", bike2.Name, bike1.Name)
		case abs1 && abs2:
			b.WriteString("🛡️ **Safety:** Both bikes have ABS.\n")
		}
	}

	b.WriteString("\n💡 **Recommendation:** ")
	if ok1 && ok2 {
		switch {
		case mileage1 > mileage2 && bike1.Price < bike2.Price:
			fmt.Fprintf(&b, "%s offers better value with higher mileage and lower price.", bike1.Name)
		case mileage2 > mileage1 && bike2.Price < bike1.Price:
			fmt.Fprintf(&b, "%s offers better value with higher mileage and lower price.", bike2.Name)
		case mileage1 > mileage2:
			fmt.Fprintf(&b, "If fuel efficiency is your priority, %s is better.", bike1.Name)
		case mileage2 > mileage1:
			fmt.Fprintf(&b, "If fuel efficiency is your priority, %s is better.", bike2.Name)
		default:
			b.WriteString("Both bikes are similar. Choose based on your brand preference and budget.")
		}
	} else {
		b.WriteString("Consider your priorities: budget, fuel efficiency, power, and features.")
	}

	return b.String()
}
