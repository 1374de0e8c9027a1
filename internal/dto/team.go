package dto

import "github.com/teamtrackr/project-tracker/internal/models"

// TeamDTO represents a team in API responses
type TeamDTO struct {
	ID                 uint                  `json:"id"`
	TeamNumber         int                   `json:"team_number"`
	ProjectTitle       string                `json:"project_title"`
	ProjectDescription string                `json:"project_description"`
	Domain             string                `json:"domain"`
	Completed          bool                  `json:"completed"`
	GithubURL          string                `json:"github_url"`
	HostedURL          string                `json:"hosted_url"`
	Checkpoints        models.CheckpointList `json:"checkpoints"`
	Students           []StudentDTO          `json:"students"`
}

// ToTeamDTO converts a team to DTO
func ToTeamDTO(team models.Team) TeamDTO {
	return TeamDTO{
		ID:                 team.ID,
		TeamNumber:         team.TeamNumber,
		ProjectTitle:       team.ProjectTitle,
		ProjectDescription: team.ProjectDescription,
		Domain:             team.Domain,
		Completed:          team.Completed,
		GithubURL:          team.GithubURL,
		HostedURL:          team.HostedURL,
		Checkpoints:        team.Checkpoints,
		Students:           ToStudentDTOs(team.Students),
	}
}

// ToTeamDTOs converts a slice of teams
func ToTeamDTOs(teams []models.Team) []TeamDTO {
	out := make([]TeamDTO, len(teams))
	for i, t := range teams {
		out[i] = ToTeamDTO(t)
	}
	return out
}
