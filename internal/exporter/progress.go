package exporter

// Export stages, in the order they are reported
const (
	StageLoading    = "carregando registros"
	StageValidating = "validando registros"
	StageDetail     = "planilha de detalhe"
	StageSummary    = "planilha de avaliação"
	StageDone       = "concluído"
)

// ProgressEvent export progress, for logging or a UI
type ProgressEvent struct {
	Percent int    `json:"percent"`
	Stage   string `json:"stage"`
}

// progressTracker forwards events to an optional callback and never lets the
// percentage go backwards or past 100.
type progressTracker struct {
	fn   func(ProgressEvent)
	last int
}

func (p *progressTracker) report(percent int, stage string) {
	if p.fn == nil {
		return
	}
	percent = min(max(percent, p.last), 100)
	p.last = percent
	p.fn(ProgressEvent{Percent: percent, Stage: stage})
}
