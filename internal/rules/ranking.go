package rules

import (
	"math"
	"sort"

	"github.com/bmc-class/bmc-api/internal/models"
	appErrors "github.com/bmc-class/bmc-api/pkg/errors"
)

// RankedStudent is one row of the individual leaderboard.
type RankedStudent struct {
	Rank        int    `json:"rank"`
	StudentID   string `json:"student_id"`
	Name        string `json:"name"`
	Team        string `json:"team,omitempty"`
	TotalPoints int    `json:"total_points"`
	PostCount   int    `json:"post_count"`
	TreeLevel   int    `json:"tree_level"`
}

// TeamStanding is one row of the team leaderboard.
type TeamStanding struct {
	Rank        int    `json:"rank"`
	Team        string `json:"team"`
	TotalPoints int    `json:"total_points"`
	AvgPoints   int    `json:"avg_points"`
	MemberCount int    `json:"member_count"`
}

// IndividualRanking orders a snapshot of students by total points descending
// and assigns sequential 1-based ranks. Ties keep snapshot order; every rank
// is assigned exactly once.
func IndividualRanking(students []models.Student) []RankedStudent {
	ranked := make([]RankedStudent, 0, len(students))
	for _, s := range students {
		ranked = append(ranked, RankedStudent{
			StudentID:   s.ID,
			Name:        s.Name,
			Team:        s.TeamName(),
			TotalPoints: s.TotalPoints,
			PostCount:   s.PostCount,
			TreeLevel:   s.TreeLevel,
		})
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].TotalPoints > ranked[j].TotalPoints
	})
	for i := range ranked {
		ranked[i].Rank = i + 1
	}
	return ranked
}

// TeamRanking aggregates students into team standings sorted by total points
// descending. Students without a team are excluded.
func TeamRanking(students []models.Student) []TeamStanding {
	totals := make(map[string]*TeamStanding)
	order := make([]string, 0)
	for _, s := range students {
		team := s.TeamName()
		if team == "" {
			continue
		}
		standing, ok := totals[team]
		if !ok {
			standing = &TeamStanding{Team: team}
			totals[team] = standing
			order = append(order, team)
		}
		standing.TotalPoints += s.TotalPoints
		standing.MemberCount++
	}

	standings := make([]TeamStanding, 0, len(order))
	for _, team := range order {
		st := totals[team]
		st.AvgPoints = int(math.Round(float64(st.TotalPoints) / float64(st.MemberCount)))
		standings = append(standings, *st)
	}
	sort.SliceStable(standings, func(i, j int) bool {
		return standings[i].TotalPoints > standings[j].TotalPoints
	})
	for i := range standings {
		standings[i].Rank = i + 1
	}
	return standings
}

// RankOf finds a student's row in a ranked snapshot.
func RankOf(ranked []RankedStudent, studentID string) (RankedStudent, error) {
	for _, r := range ranked {
		if r.StudentID == studentID {
			return r, nil
		}
	}
	return RankedStudent{}, appErrors.Clone(appErrors.ErrNotFound, "student not in ranking snapshot")
}
