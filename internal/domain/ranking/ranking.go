// Package ranking turns graded race results into placings, points and
// championship standings.
package ranking

import (
	"math"
	"sort"
	"strings"

	"gonum.org/v1/gonum/stat"

	"github.com/okian/agegrade/internal/domain/model"
)

// percentTieScale rounds age-graded percents to 5 decimals before they are
// compared for ties.
const percentTieScale = 1e5

// Result is one runner's finish in one race.
type Result struct {
	ID            string
	RaceID        string
	RunnerID      string
	RunnerName    string
	Gender        model.Gender
	FinishSeconds float64
	// AgeGraded is nil when the runner's age on race day is unknown.
	AgeGraded *float64
}

// Placing is a ranked result. Age-graded fields are zero for results
// without an age-graded percent.
type Placing struct {
	Result
	Position          int
	Points            int
	AgeGradedPosition int
	AgeGradedPoints   int
}

// HasAgeGraded reports whether the placing took part in the age-graded ranking.
func (p Placing) HasAgeGraded() bool { return p.AgeGradedPosition > 0 }

// PointsFor awards maxPoints to position 1 and one point less per position,
// never below zero.
func PointsFor(position, maxPoints int) int {
	return max(maxPoints-(position-1), 0)
}

// RankRace ranks the results of a single race. Finish positions are per
// gender, ordered by time; age-graded positions combine both genders,
// ordered by percent descending. Equal values share a position and the
// next distinct value skips the shared places (1, 1, 3).
//
// The returned placings are ordered by gender, then position.
func RankRace(results []Result, maxPoints int) []Placing {
	placings := make([]Placing, len(results))
	for i, r := range results {
		placings[i] = Placing{Result: r}
	}

	sort.SliceStable(placings, func(i, j int) bool {
		a, b := placings[i], placings[j]
		if a.Gender != b.Gender {
			return a.Gender == model.Men
		}
		return a.FinishSeconds < b.FinishSeconds
	})
	for start := 0; start < len(placings); {
		end := start
		for end < len(placings) && placings[end].Gender == placings[start].Gender {
			end++
		}
		assign(placings[start:end],
			func(p *Placing) float64 { return p.FinishSeconds },
			func(p *Placing, pos int) { p.Position, p.Points = pos, PointsFor(pos, maxPoints) })
		start = end
	}

	graded := make([]*Placing, 0, len(placings))
	for i := range placings {
		if placings[i].AgeGraded != nil {
			graded = append(graded, &placings[i])
		}
	}
	sort.SliceStable(graded, func(i, j int) bool {
		return *graded[i].AgeGraded > *graded[j].AgeGraded
	})
	assignPtr(graded,
		func(p *Placing) float64 { return math.Round(*p.AgeGraded*percentTieScale) / percentTieScale },
		func(p *Placing, pos int) { p.AgeGradedPosition, p.AgeGradedPoints = pos, PointsFor(pos, maxPoints) })

	return placings
}

// assign gives competition-ranking positions to sorted placings.
func assign(ps []Placing, key func(*Placing) float64, set func(*Placing, int)) {
	ptrs := make([]*Placing, len(ps))
	for i := range ps {
		ptrs[i] = &ps[i]
	}
	assignPtr(ptrs, key, set)
}

func assignPtr(ps []*Placing, key func(*Placing) float64, set func(*Placing, int)) {
	pos := 0
	for i, p := range ps {
		if i == 0 || key(p) != key(ps[i-1]) {
			pos = i + 1
		}
		set(p, pos)
	}
}

// Standing is a runner's championship line.
type Standing struct {
	Position    int
	RunnerID    string
	RunnerName  string
	Gender      model.Gender
	TotalPoints int
	Races       int
}

// Championship sums finish points per runner across all placings. Each
// gender is ranked separately; men come first in the result.
func Championship(placings []Placing) []Standing {
	totals := collect(placings, func(p Placing) (int, bool) { return p.Points, true })

	var men, women []Standing
	for _, s := range totals {
		if s.gender == model.Women {
			women = append(women, s.standing(0))
		} else {
			men = append(men, s.standing(0))
		}
	}
	return append(rankStandings(men), rankStandings(women)...)
}

// AgeGradedChampionship sums the best bestOf age-graded point totals per
// runner, both genders combined. Results without age-graded points are
// ignored; bestOf <= 0 counts every race.
func AgeGradedChampionship(placings []Placing, bestOf int) []Standing {
	totals := collect(placings, func(p Placing) (int, bool) { return p.AgeGradedPoints, p.HasAgeGraded() })

	out := make([]Standing, 0, len(totals))
	for _, s := range totals {
		out = append(out, s.standing(bestOf))
	}
	return rankStandings(out)
}

type runnerPoints struct {
	id     string
	name   string
	gender model.Gender
	points []int
}

func (r *runnerPoints) standing(bestOf int) Standing {
	pts := append([]int(nil), r.points...)
	sort.Sort(sort.Reverse(sort.IntSlice(pts)))
	if bestOf > 0 && len(pts) > bestOf {
		pts = pts[:bestOf]
	}
	total := 0
	for _, p := range pts {
		total += p
	}
	return Standing{
		RunnerID:    r.id,
		RunnerName:  r.name,
		Gender:      r.gender,
		TotalPoints: total,
		Races:       len(r.points),
	}
}

func collect(placings []Placing, points func(Placing) (int, bool)) []*runnerPoints {
	byRunner := make(map[string]*runnerPoints)
	var order []*runnerPoints
	for _, p := range placings {
		pts, ok := points(p)
		if !ok {
			continue
		}
		r, seen := byRunner[p.RunnerID]
		if !seen {
			r = &runnerPoints{id: p.RunnerID, name: p.RunnerName, gender: p.Gender}
			byRunner[p.RunnerID] = r
			order = append(order, r)
		}
		r.points = append(r.points, pts)
	}
	return order
}

// rankStandings orders by total descending, name ascending, and gives tied
// totals the position of the first runner in their group.
func rankStandings(s []Standing) []Standing {
	sort.SliceStable(s, func(i, j int) bool {
		if s[i].TotalPoints != s[j].TotalPoints {
			return s[i].TotalPoints > s[j].TotalPoints
		}
		return strings.ToLower(s[i].RunnerName) < strings.ToLower(s[j].RunnerName)
	})
	for i := range s {
		if i > 0 && s[i].TotalPoints == s[i-1].TotalPoints {
			s[i].Position = s[i-1].Position
		} else {
			s[i].Position = i + 1
		}
	}
	return s
}

// RaceSummary describes the age-graded field of one race.
type RaceSummary struct {
	RaceID     string
	Finishers  int
	Graded     int
	MeanPct    float64
	MedianPct  float64 // lower median
	BestPct    float64
	BestRunner string
}

// Summarize computes the age-graded summary of one race's placings.
func Summarize(raceID string, placings []Placing) RaceSummary {
	sum := RaceSummary{RaceID: raceID, Finishers: len(placings)}

	pcts := make([]float64, 0, len(placings))
	for _, p := range placings {
		if p.AgeGraded == nil {
			continue
		}
		pcts = append(pcts, *p.AgeGraded)
		if *p.AgeGraded > sum.BestPct {
			sum.BestPct = *p.AgeGraded
			sum.BestRunner = p.RunnerName
		}
	}
	sum.Graded = len(pcts)
	if len(pcts) == 0 {
		return sum
	}

	sort.Float64s(pcts)
	sum.MeanPct = stat.Mean(pcts, nil)
	sum.MedianPct = stat.Quantile(0.5, stat.Empirical, pcts, nil)
	return sum
}
