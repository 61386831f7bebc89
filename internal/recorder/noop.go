package recorder

import "github.com/kipto05/ict-ml/internal/model"

// NoopRecorder is a no-op implementation used when SQLite is not configured.
type NoopRecorder struct{}

func NewNoopRecorder() *NoopRecorder { return &NoopRecorder{} }

func (n *NoopRecorder) RecordScan(_ *ScanRecord) error                    { return nil }
func (n *NoopRecorder) RecordSwings(_ string, _ []model.SwingPoint) error { return nil }
func (n *NoopRecorder) RecordBOS(_ string, _ []model.BOSEvent) error      { return nil }
func (n *NoopRecorder) RecordCHoCH(_ string, _ []model.CHoCHEvent) error  { return nil }
func (n *NoopRecorder) Close() error                                      { return nil }
