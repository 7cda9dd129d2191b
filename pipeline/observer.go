package pipeline

// Stage is a step of a pipeline run.
type Stage int

const (
	StageFetch Stage = iota
	StageParse
	StageSelect
	StageSplit
	StageSubset
	StagePackage
	StageDone
)

var stageNames = [...]string{"fetch", "parse", "select", "split", "subset", "package", "done"}

func (s Stage) String() string {
	if s >= 0 && int(s) < len(stageNames) {
		return stageNames[s]
	}
	return "stage?"
}

// Progress is reported to an Observer at each stage of a run, and for every
// group while subsetting. The meaning of Done and Total depends on the stage:
// for StageSubset they count groups, for StageSelect they are the number of
// selected codepoints and the number of codepoints in the font.
type Progress struct {
	Stage   Stage
	Done    int
	Total   int
	Message string
}

// Observer receives progress reports of a run.
type Observer func(Progress)

func (obs Observer) notify(stage Stage, done, total int, msg string) {
	if obs != nil {
		obs(Progress{Stage: stage, Done: done, Total: total, Message: msg})
	}
}
