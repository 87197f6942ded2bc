package model

type SaveOutcome string

const (
	SaveOutcomeInserted  SaveOutcome = "inserted"
	SaveOutcomeUpdated   SaveOutcome = "updated"
	SaveOutcomeUnchanged SaveOutcome = "unchanged"
)

// SaveResult describes what the first load pass did with one record.
type SaveResult struct {
	EggID        int64
	Outcome      SaveOutcome
	StepsWritten int
	StepsPruned  int
}
