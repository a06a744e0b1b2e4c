package stats

import (
	"math"
	"time"

	"github.com/2023UCA1802/Infosys-Study-AI-Recommender/core"
	"github.com/2023UCA1802/Infosys-Study-AI-Recommender/core/goal"
	"github.com/2023UCA1802/Infosys-Study-AI-Recommender/core/schedule"
	"github.com/2023UCA1802/Infosys-Study-AI-Recommender/core/studylog"
	"github.com/2023UCA1802/Infosys-Study-AI-Recommender/core/user"
)

type (
	// StudentStats is a student profile with their goal and schedule aggregates.
	StudentStats struct {
		user.User
		CompletedGoals int     `json:"completedGoals"`
		TotalGoals     int     `json:"totalGoals"`
		AvgProgress    int     `json:"avgProgress"`
		StudyHours     float64 `json:"studyHours"`
		FocusScore     int     `json:"focusScore"`
	}

	GoalsDistribution struct {
		Pending  int `json:"pending"`
		Finished int `json:"finished"`
	}

	ProgressBin struct {
		Name  string `json:"name"`
		Count int    `json:"count"`
	}

	TimeOfDay struct {
		Name  string  `json:"name"`
		Hours float64 `json:"hours"`
	}

	DayHours struct {
		Day   string  `json:"day"`  // Mon..Sun
		Date  string  `json:"date"` // YYYY-MM-DD
		Hours float64 `json:"hours"`
	}

	// StudentDetail holds the chart series of a single student.
	StudentDetail struct {
		GoalsDistribution     GoalsDistribution `json:"goalsDistribution"`
		GoalProgressBins      []ProgressBin     `json:"goalProgressBins"`
		StudyTimeDistribution []TimeOfDay       `json:"studyTimeDistribution"`
		WeeklyStudyHours      []DayHours        `json:"weeklyStudyHours"`
	}
)

// FocusScore rates a student: 0 without goals nor tasks, 60 with tasks only,
// otherwise 50 plus 5 per completed goal, capped at 100.
func FocusScore(totalGoals, completedGoals, tasks int) int {
	if totalGoals == 0 {
		if tasks == 0 {
			return 0
		}
		return 60
	}
	score := 50 + 5*completedGoals
	if score > 100 {
		return 100
	}
	return score
}

// Summarize computes the StudentStats of usr.
func Summarize(usr user.User, goals []goal.Goal, tasks []schedule.Task) StudentStats {
	st := StudentStats{User: usr, TotalGoals: len(goals)}

	var progress int
	for i := range goals {
		if goals[i].IsCompleted() {
			st.CompletedGoals++
		}
		progress += goals[i].Progress
	}
	if st.TotalGoals > 0 {
		st.AvgProgress = int(math.Round(float64(progress) / float64(st.TotalGoals)))
	}

	var minutes int
	for i := range tasks {
		minutes += tasks[i].Minutes()
	}
	st.StudyHours = round(float64(minutes)/60, 1)
	st.FocusScore = FocusScore(st.TotalGoals, st.CompletedGoals, len(tasks))
	return st
}

var progressBins = []struct {
	name     string
	min, max int
}{
	{"0", 0, 0},
	{"1-25", 1, 25},
	{"26-50", 26, 50},
	{"51-75", 51, 75},
	{"76-99", 76, 99},
	{"100", 100, 100},
}

var dayWindows = []struct {
	name       string
	start, end int // minutes since midnight, end excluded
}{
	{"Night", 0, 6 * 60},
	{"Morning", 6 * 60, 12 * 60},
	{"Afternoon", 12 * 60, 18 * 60},
	{"Evening", 18 * 60, 24 * 60},
}

// Detail computes the chart series of usr. now decides the last day of the weekly series.
func Detail(usr user.User, goals []goal.Goal, logs []studylog.Log, now time.Time) StudentDetail {
	var d StudentDetail

	bins := make([]ProgressBin, len(progressBins))
	for i, b := range progressBins {
		bins[i].Name = b.name
	}
	for i := range goals {
		if goals[i].IsCompleted() {
			d.GoalsDistribution.Finished++
		} else {
			d.GoalsDistribution.Pending++
		}
		p := goals[i].Progress
		for j, b := range progressBins {
			if p >= b.min && p <= b.max {
				bins[j].Count++
				break
			}
		}
	}
	d.GoalProgressBins = bins

	windowMinutes := make([]int, len(dayWindows))
	dayMinutes := make(map[string]int)
	for i := range logs {
		start, okStart := core.ClockMinutes(logs[i].StartTime)
		end, okEnd := core.ClockMinutes(logs[i].EndTime)
		if !okStart || !okEnd || end <= start {
			continue
		}
		for j, w := range dayWindows {
			windowMinutes[j] += overlap(start, end, w.start, w.end)
		}
		dayMinutes[logs[i].Date] += end - start
	}
	d.StudyTimeDistribution = make([]TimeOfDay, len(dayWindows))
	for j, w := range dayWindows {
		d.StudyTimeDistribution[j] = TimeOfDay{Name: w.name, Hours: round(float64(windowMinutes[j])/60, 1)}
	}

	d.WeeklyStudyHours = make([]DayHours, 0, 7)
	for i := 6; i >= 0; i-- {
		day := now.AddDate(0, 0, -i)
		date := day.Format(core.DateLayout)
		entry := DayHours{Day: day.Format("Mon"), Date: date}
		if m, ok := dayMinutes[date]; ok {
			entry.Hours = round(float64(m)/60, 1)
		} else {
			entry.Hours = usr.DailyStudyHours[day.Weekday().String()]
		}
		d.WeeklyStudyHours = append(d.WeeklyStudyHours, entry)
	}
	return d
}

// overlap returns the length of [s1,e1) ∩ [s2,e2).
func overlap(s1, e1, s2, e2 int) int {
	lo, hi := s1, e1
	if s2 > lo {
		lo = s2
	}
	if e2 < hi {
		hi = e2
	}
	if hi <= lo {
		return 0
	}
	return hi - lo
}

func round(f float64, decimals int) float64 {
	p := math.Pow(10, float64(decimals))
	return math.Round(f*p) / p
}
