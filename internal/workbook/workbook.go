// ABOUTME: Excel workbook codec for training plans.
// ABOUTME: Reads and writes the Config, Paces, HeartRates and Workouts sheets.
package workbook

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/harperreed/trainer/internal/config"
	"github.com/harperreed/trainer/internal/plan"
)

const (
	sheetConfig     = "Config"
	sheetPaces      = "Paces"
	sheetHeartRates = "HeartRates"
	sheetWorkouts   = "Workouts"
	sheetExamples   = "Examples"
)

// Section headings on the Paces sheet. Column A must match these literally.
const (
	headingRunning = "Running paces"
	headingPower   = "Cycling power"
	headingSwim    = "Swim paces"
)

const dateLayout = "2006-01-02"

var workoutNamePattern = regexp.MustCompile(`^W(\d{2})S(\d{2})\s*(.*)$`)

// Read loads a plan from a workbook file. The Examples sheet is ignored.
func Read(path string) (*plan.Plan, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	raw, err := readConfigSheet(f)
	if err != nil {
		return nil, err
	}
	if err := readPacesSheet(f, raw); err != nil {
		return nil, err
	}
	if err := readHeartRatesSheet(f, raw); err != nil {
		return nil, err
	}

	athlete, workouts, err := readWorkoutsSheet(f)
	if err != nil {
		return nil, err
	}
	if athlete != "" {
		raw["athlete_name"] = athlete
	}

	cfg, err := config.LoadTraining(raw)
	if err != nil {
		return nil, err
	}
	return &plan.Plan{Config: cfg, Workouts: workouts}, nil
}

// Write renders a plan into a workbook file. Pace cells are forced to string
// type so the spreadsheet does not reinterpret them as times of day.
func Write(p *plan.Plan, path string) error {
	f := excelize.NewFile()
	defer f.Close()

	for _, name := range []string{sheetConfig, sheetPaces, sheetHeartRates, sheetWorkouts, sheetExamples} {
		if _, err := f.NewSheet(name); err != nil {
			return fmt.Errorf("create sheet %s: %w", name, err)
		}
	}
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return fmt.Errorf("drop default sheet: %w", err)
	}

	cfg := p.Config
	if cfg == nil {
		cfg = &config.Training{}
	}
	if err := writeConfigSheet(f, cfg); err != nil {
		return err
	}
	if err := writePacesSheet(f, cfg); err != nil {
		return err
	}
	if err := writeHeartRatesSheet(f, cfg); err != nil {
		return err
	}
	if err := writeWorkoutsSheet(f, cfg, p.Workouts); err != nil {
		return err
	}
	if err := writeExamplesSheet(f); err != nil {
		return err
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("save workbook: %w", err)
	}
	return nil
}

func readConfigSheet(f *excelize.File) (map[string]any, error) {
	rows, err := f.GetRows(sheetConfig)
	if err != nil {
		return nil, fmt.Errorf("read %s sheet: %w", sheetConfig, err)
	}

	raw := map[string]any{}
	for _, row := range rows {
		if len(row) == 0 || row[0] == "" {
			continue
		}
		args := trimRow(row[1:])
		switch row[0] {
		case "name_prefix":
			if len(args) > 0 {
				raw["name_prefix"] = args[0]
			}
		case "race_day":
			if len(args) > 0 {
				raw["race_day"] = args[0]
			}
		case "preferred_days":
			days := make([]any, 0, len(args))
			for _, a := range args {
				n, err := strconv.Atoi(a)
				if err != nil {
					return nil, fmt.Errorf("config sheet preferred_days: bad weekday %q", a)
				}
				days = append(days, n)
			}
			raw["preferred_days"] = days
		case "margins":
			// faster, slower, hr_up, hr_down, power_up, power_down in B..G
			keys := []string{"faster", "slower", "hr_up", "hr_down", "power_up", "power_down"}
			margins := map[string]any{}
			for i, a := range args {
				if i >= len(keys) || a == "" {
					break
				}
				margins[keys[i]] = a
			}
			raw["margins"] = margins
		default:
			if len(args) == 1 {
				raw[row[0]] = args[0]
			} else if len(args) > 1 {
				vals := make([]any, len(args))
				for i, a := range args {
					vals[i] = a
				}
				raw[row[0]] = vals
			}
		}
	}
	return raw, nil
}

func readPacesSheet(f *excelize.File, raw map[string]any) error {
	rows, err := f.GetRows(sheetPaces)
	if err != nil {
		return fmt.Errorf("read %s sheet: %w", sheetPaces, err)
	}

	paces := map[string]any{}
	power := map[string]any{}
	swim := map[string]any{}

	var section map[string]any
	for _, row := range rows {
		if len(row) == 0 || row[0] == "" {
			continue
		}
		switch row[0] {
		case headingRunning:
			section = paces
			continue
		case headingPower:
			section = power
			continue
		case headingSwim:
			section = swim
			continue
		}
		if section == nil || len(row) < 2 || row[1] == "" {
			continue
		}
		section[row[0]] = row[1]
	}

	if len(paces) > 0 {
		raw["paces"] = paces
	}
	if len(power) > 0 {
		raw["power_values"] = power
	}
	if len(swim) > 0 {
		raw["swim_paces"] = swim
	}
	return nil
}

func readHeartRatesSheet(f *excelize.File, raw map[string]any) error {
	rows, err := f.GetRows(sheetHeartRates)
	if err != nil {
		return fmt.Errorf("read %s sheet: %w", sheetHeartRates, err)
	}
	hr := map[string]any{}
	for _, row := range rows {
		if len(row) < 2 || row[0] == "" || row[1] == "" {
			continue
		}
		hr[row[0]] = row[1]
	}
	if len(hr) > 0 {
		raw["heart_rates"] = hr
	}
	return nil
}

func readWorkoutsSheet(f *excelize.File) (string, []*plan.Workout, error) {
	rows, err := f.GetRows(sheetWorkouts)
	if err != nil {
		return "", nil, fmt.Errorf("read %s sheet: %w", sheetWorkouts, err)
	}

	var athlete string
	if len(rows) > 0 && len(rows[0]) > 0 {
		athlete = strings.TrimSpace(strings.TrimPrefix(rows[0][0], "Atleta:"))
	}

	var workouts []*plan.Workout
	for i, row := range rows {
		if i < 2 { // athlete banner and header row
			continue
		}
		row = padRow(row, 6)
		week, date, session := row[0], row[1], row[2]
		sportCell, description, stepsCell := row[3], row[4], row[5]
		if stepsCell == "" {
			continue
		}

		sport, err := plan.ParseSport(sportCell)
		if err != nil {
			return "", nil, fmt.Errorf("workouts sheet row %d: %w", i+1, err)
		}
		steps, err := plan.ParseText(stepsCell)
		if err != nil {
			return "", nil, fmt.Errorf("workouts sheet row %d: %w", i+1, err)
		}

		w := &plan.Workout{
			Name:        workoutName(week, session, description),
			Description: description,
			Sport:       sport,
			Steps:       steps,
		}
		if date != "" {
			day, err := time.Parse(dateLayout, date)
			if err != nil {
				return "", nil, fmt.Errorf("workouts sheet row %d: bad date %q", i+1, date)
			}
			w.Date = &day
		}
		workouts = append(workouts, w)
	}
	return athlete, workouts, nil
}

// workoutName builds the canonical W{nn}S{nn} name from the sheet columns.
// Rows without week/session keep the description as the full name.
func workoutName(week, session, description string) string {
	if week == "" || session == "" {
		return description
	}
	w, _ := strconv.Atoi(week)
	s, _ := strconv.Atoi(session)
	name := fmt.Sprintf("W%02dS%02d", w, s)
	if description != "" {
		name += " " + description
	}
	return name
}

func writeConfigSheet(f *excelize.File, cfg *config.Training) error {
	row := 1
	set := func(cells ...string) error {
		for col, v := range cells {
			cell, err := excelize.CoordinatesToCellName(col+1, row)
			if err != nil {
				return err
			}
			if err := f.SetCellStr(sheetConfig, cell, v); err != nil {
				return err
			}
		}
		row++
		return nil
	}

	if cfg.NamePrefix != "" {
		if err := set("name_prefix", cfg.NamePrefix); err != nil {
			return err
		}
	}
	if !cfg.RaceDay.IsZero() {
		if err := set("race_day", cfg.RaceDay.Format(dateLayout)); err != nil {
			return err
		}
	}
	if len(cfg.PreferredDays) > 0 {
		cells := []string{"preferred_days"}
		for _, d := range cfg.PreferredDays {
			cells = append(cells, strconv.Itoa(d))
		}
		if err := set(cells...); err != nil {
			return err
		}
	}
	if cfg.Margins != (config.Margins{}) {
		if err := set("margins",
			cfg.Margins.Faster.Format(),
			cfg.Margins.Slower.Format(),
			strconv.Itoa(cfg.Margins.HRUp),
			strconv.Itoa(cfg.Margins.HRDown),
			strconv.Itoa(cfg.Margins.PowerUp),
			strconv.Itoa(cfg.Margins.PowerDn)); err != nil {
			return err
		}
	}
	return nil
}

func writePacesSheet(f *excelize.File, cfg *config.Training) error {
	row := 1
	writeSection := func(heading string, values map[string]string) error {
		if len(values) == 0 {
			return nil
		}
		cell, err := excelize.CoordinatesToCellName(1, row)
		if err != nil {
			return err
		}
		if err := f.SetCellStr(sheetPaces, cell, heading); err != nil {
			return err
		}
		row++
		for _, name := range sortedKeys(values) {
			nameCell, err := excelize.CoordinatesToCellName(1, row)
			if err != nil {
				return err
			}
			valCell, err := excelize.CoordinatesToCellName(2, row)
			if err != nil {
				return err
			}
			if err := f.SetCellStr(sheetPaces, nameCell, name); err != nil {
				return err
			}
			// string-typed so "4:30" is not read back as 04:30 AM
			if err := f.SetCellStr(sheetPaces, valCell, values[name]); err != nil {
				return err
			}
			row++
		}
		row++ // blank spacer between sections
		return nil
	}

	if err := writeSection(headingRunning, cfg.Paces); err != nil {
		return err
	}
	if err := writeSection(headingPower, cfg.PowerValues); err != nil {
		return err
	}
	return writeSection(headingSwim, cfg.SwimPaces)
}

func writeHeartRatesSheet(f *excelize.File, cfg *config.Training) error {
	row := 1
	for _, name := range sortedKeys(cfg.HeartRates) {
		nameCell, err := excelize.CoordinatesToCellName(1, row)
		if err != nil {
			return err
		}
		valCell, err := excelize.CoordinatesToCellName(2, row)
		if err != nil {
			return err
		}
		if err := f.SetCellStr(sheetHeartRates, nameCell, name); err != nil {
			return err
		}
		if err := f.SetCellStr(sheetHeartRates, valCell, cfg.HeartRates[name]); err != nil {
			return err
		}
		row++
	}
	return nil
}

func writeWorkoutsSheet(f *excelize.File, cfg *config.Training, workouts []*plan.Workout) error {
	if err := f.SetCellStr(sheetWorkouts, "A1", "Atleta: "+cfg.AthleteName); err != nil {
		return err
	}
	headers := []string{"Week", "Date", "Session", "Sport", "Description", "Steps"}
	for col, h := range headers {
		cell, err := excelize.CoordinatesToCellName(col+1, 2)
		if err != nil {
			return err
		}
		if err := f.SetCellStr(sheetWorkouts, cell, h); err != nil {
			return err
		}
	}

	for i, w := range workouts {
		week, session, description := splitWorkoutName(w.Name)
		if description == "" {
			description = w.Description
		}
		date := ""
		if w.Date != nil {
			date = w.Date.Format(dateLayout)
		}
		cells := []string{week, date, session, w.Sport.Key(), description, plan.FormatText(w.Steps)}
		for col, v := range cells {
			cell, err := excelize.CoordinatesToCellName(col+1, i+3)
			if err != nil {
				return err
			}
			if err := f.SetCellStr(sheetWorkouts, cell, v); err != nil {
				return err
			}
		}
	}
	return nil
}

func writeExamplesSheet(f *excelize.File) error {
	lines := []string{
		"Step syntax: kind: duration @zone -- description",
		"warmup: 10min @Z1_HR",
		"interval: 1km @Z4",
		"repeat blocks indent children by two spaces",
	}
	for i, line := range lines {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetCellStr(sheetExamples, cell, line); err != nil {
			return err
		}
	}
	return nil
}

// splitWorkoutName breaks a W{nn}S{nn} name into sheet columns. Names that
// do not follow the convention go wholly into the description column.
func splitWorkoutName(name string) (week, session, description string) {
	m := workoutNamePattern.FindStringSubmatch(name)
	if m == nil {
		return "", "", name
	}
	return strings.TrimLeft(m[1], "0"), strings.TrimLeft(m[2], "0"), m[3]
}

func sortedKeys(m map[string]string) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

func trimRow(cells []string) []string {
	end := len(cells)
	for end > 0 && strings.TrimSpace(cells[end-1]) == "" {
		end--
	}
	out := make([]string, end)
	for i := 0; i < end; i++ {
		out[i] = strings.TrimSpace(cells[i])
	}
	return out
}

func padRow(row []string, width int) []string {
	for len(row) < width {
		row = append(row, "")
	}
	out := make([]string, width)
	for i := 0; i < width; i++ {
		out[i] = strings.TrimSpace(row[i])
	}
	return out
}
