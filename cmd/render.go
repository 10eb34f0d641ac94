package main

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"mealprep/internal/models"
)

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205"))
	sectionStyle = lipgloss.NewStyle().Bold(true).Underline(true).MarginTop(1)
	menuStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39"))
	mutedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	warnStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	boxStyle     = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
)

func renderPlan(w io.Writer, plan models.DailyPlan) {
	fmt.Fprintln(w, titleStyle.Render(fmt.Sprintf("Production plan %s", plan.Date)))
	fmt.Fprintln(w, mutedStyle.Render(fmt.Sprintf("%d orders, %d dishes", plan.OrderCount, plan.Workload.GrandTotal)))

	if plan.OrderCount == 0 {
		fmt.Fprintln(w, mutedStyle.Render("No orders for this date."))
		return
	}

	fmt.Fprintln(w, sectionStyle.Render("Kitchen"))
	for _, menuType := range plan.Kitchen.MenuTypes {
		agg := plan.Kitchen.ByMenuType[menuType]
		fmt.Fprintln(w, menuStyle.Render(fmt.Sprintf("%s (%d dishes)", menuType, agg.DishCount())))

		var b strings.Builder
		for _, d := range agg.SortedDishes() {
			fmt.Fprintf(&b, "%d. %s  %s %s  |  %s %s  |  %s %s  x%d\n",
				d.Slot,
				d.ProteinName, formatGrams(d.ProteinGrams),
				d.Carb.Name, formatTotals(d.Carb),
				d.Vegetable.Name, formatTotals(d.Vegetable),
				d.DishCount,
			)
		}
		for _, n := range plan.Kitchen.NotesByMenuType[menuType] {
			fmt.Fprintf(&b, "note (%s): %s\n", n.Client, n.Notes)
		}
		fmt.Fprintln(w, boxStyle.Render(strings.TrimRight(b.String(), "\n")))
	}
	if len(plan.Kitchen.BreakfastClients) > 0 {
		names := make([]string, 0, len(plan.Kitchen.BreakfastClients))
		for _, c := range plan.Kitchen.BreakfastClients {
			names = append(names, fmt.Sprintf("%s (%s)", c.Client, c.MenuType))
		}
		fmt.Fprintf(w, "Breakfast: %s\n", strings.Join(names, ", "))
	}

	fmt.Fprintln(w, sectionStyle.Render("Workload"))
	renderPool(w, "Kitchen", plan.Workload.Kitchen)
	renderPool(w, "Packaging", plan.Workload.Packaging)

	fmt.Fprintln(w, sectionStyle.Render("Packaging"))
	for _, c := range plan.Packaging.Clients {
		packager := c.Packager
		if packager == "" {
			packager = "unassigned"
		}
		fmt.Fprintf(w, "%-24s %-12s %2d dishes  -> %s\n", c.Client, c.MenuType, len(c.Dishes)*c.MenuCount, packager)
	}

	if len(plan.Purchases) > 0 {
		fmt.Fprintln(w, sectionStyle.Render("Purchases"))
		for _, p := range plan.Purchases {
			fmt.Fprintf(w, "%-10s %-24s %s\n", p.Kind, p.Ingredient, formatGrams(p.Grams))
		}
	}

	if len(plan.Issues) > 0 {
		fmt.Fprintln(w, sectionStyle.Render("Degraded fields"))
		for _, is := range plan.Issues {
			fmt.Fprintln(w, warnStyle.Render(fmt.Sprintf("%s %s: %q (%s)", is.Client, is.Field, is.Raw, is.Reason)))
		}
	}
}

func renderPool(w io.Writer, name string, results []models.AllocationResult) {
	if len(results) == 0 {
		fmt.Fprintf(w, "%s: no workers\n", name)
		return
	}
	fmt.Fprintf(w, "%s:\n", name)
	for _, r := range results {
		fmt.Fprintf(w, "  %-16s %3.0f%%  %3d dishes %s\n", r.Worker, r.Share*100, r.Total, formatBreakdown(r.Breakdown))
	}
}

func formatBreakdown(b map[string]int) string {
	if len(b) == 0 {
		return ""
	}
	keys := make([]string, 0, len(b))
	for k := range b {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s %d", k, b[k]))
	}
	return mutedStyle.Render("(" + strings.Join(parts, ", ") + ")")
}

func formatGrams(g float64) string {
	if g == 0 {
		return "-"
	}
	return fmt.Sprintf("%gg", g)
}

func formatTotals(t models.ComponentTotals) string {
	parts := []string{}
	if t.Grams > 0 {
		parts = append(parts, fmt.Sprintf("%gg", t.Grams))
	}
	if t.Cups > 0 {
		parts = append(parts, fmt.Sprintf("%g cups", t.Cups))
	}
	if len(parts) == 0 {
		return "-"
	}
	return strings.Join(parts, " + ")
}
