package hackathon

import (
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"

	"github.com/dannygardner26/GVCS-Main-Page-sub000/core"
	"github.com/dannygardner26/GVCS-Main-Page-sub000/core/prompt"
)

// Step is a stage of the program wizard, 0 based.
type Step int

const (
	StepDownloadTools Step = iota
	StepIdeation
	StepMasterDocument
	StepIndividualSetup
	StepExecution
	StepPitchAndSubmit
)

type StepInfo struct {
	Step        Step   `json:"step"`
	Title       string `json:"title"`
	Description string `json:"description"`
}

var (
	Steps = []StepInfo{
		{StepDownloadTools, "Download Tools", "Get required software"},
		{StepIdeation, "Ideation", "Brainstorm with an LLM"},
		{StepMasterDocument, "Master Document", "Create the execution plan"},
		{StepIndividualSetup, "Individual Setup", "Set up your personal LLM"},
		{StepExecution, "Execution", "Build the project"},
		{StepPitchAndSubmit, "Pitch & Submit", "Create the presentation"},
	}

	ErrProgramNotFound = errors.Wrap(core.ErrNotFound, "hackathon program not found")
)

func (s Step) Valid() bool {
	return s >= StepDownloadTools && s <= StepPitchAndSubmit
}

type (
	Info struct {
		Theme              string `json:"theme"`
		ToolSpecificAwards string `json:"tool_specific_awards"`
		Context            string `json:"context"`
		Sponsors           string `json:"sponsors"`
		JudgeDemographic   string `json:"judge_demographic"`
	}

	TeamMember struct {
		Name   string `json:"name" validate:"required,notblank"`
		Skills string `json:"skills"`
	}

	// Program is a student's progress through the hackathon wizard.
	Program struct {
		ID             string       `json:"id"`
		UserID         string       `json:"user_id"`
		Name           string       `json:"name"`
		Date           string       `json:"date"`
		Tracks         []string     `json:"tracks"`
		TeamMembers    []TeamMember `json:"team_members"`
		CurrentStep    Step         `json:"current_step"`
		FinalizedIdea  string       `json:"finalized_idea"`
		MasterDocument string       `json:"master_document"`
		Info           Info         `json:"info"`
		CreatedAt      time.Time    `json:"created_at"`
		UpdatedAt      time.Time    `json:"updated_at"`
	}

	// ProgramData is what the wizard sends on create & update. Nil fields are left unchanged on
	// update.
	ProgramData struct {
		Name           *string      `json:"name" validate:"omitempty,max=255"`
		Date           *string      `json:"date" validate:"omitempty,max=50"`
		Tracks         []string     `json:"tracks" validate:"omitempty,dive,required"`
		TeamMembers    []TeamMember `json:"team_members" validate:"omitempty,dive"`
		FinalizedIdea  *string      `json:"finalized_idea"`
		MasterDocument *string      `json:"master_document"`
		Info           *Info        `json:"info"`
	}

	Prompts struct {
		Ideation       string `json:"ideation"`
		MasterDocument string `json:"master_document"`
	}
)

func (pd *ProgramData) Validate(validate *validator.Validate) error {
	if pd.Name != nil {
		*pd.Name = core.CleanString(*pd.Name)
	}
	for i := range pd.Tracks {
		pd.Tracks[i] = core.CleanString(pd.Tracks[i])
	}
	return validate.Struct(pd)
}

func (pd ProgramData) apply(p *Program) {
	if pd.Name != nil {
		p.Name = *pd.Name
	}
	if pd.Date != nil {
		p.Date = *pd.Date
	}
	if pd.Tracks != nil {
		p.Tracks = pd.Tracks
	}
	if pd.TeamMembers != nil {
		p.TeamMembers = pd.TeamMembers
	}
	if pd.FinalizedIdea != nil {
		p.FinalizedIdea = *pd.FinalizedIdea
	}
	if pd.MasterDocument != nil {
		p.MasterDocument = *pd.MasterDocument
	}
	if pd.Info != nil {
		p.Info = *pd.Info
	}
}

// RenderPrompts fills the ideation & master document prompts. Empty fields become placeholders the
// student fills in by hand.
func RenderPrompts(p Program) (Prompts, error) {
	ideation, err := prompt.Render(prompt.HackathonIdeation, p)
	if err != nil {
		return Prompts{}, err
	}
	master, err := prompt.Render(prompt.HackathonMaster, p)
	if err != nil {
		return Prompts{}, err
	}
	return Prompts{Ideation: ideation, MasterDocument: master}, nil
}
