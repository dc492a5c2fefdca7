package log

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"strings"
	"testing"

	"github.com/cockroachdb/errors"
)

func TestTestLoggerCapturesAllLevels(t *testing.T) {
	logger, buffer := NewTestLogger(LevelDebug)

	logger.Debug("Fitted sub-model", DepthKey, 2, OffsetKey, 1.5)
	logger.Info("Training CFRegressor", SamplesKey, 100, FeaturesKey, 8)
	logger.Warn("Lasso did not converge", IterationKey, 1000)
	logger.Error("Training failed", "error", fmt.Errorf("singular design matrix"), ErrorCodeKey, ErrorSingularMatrix)

	if buffer.String() == "" {
		t.Fatal("expected captured output, got empty buffer")
	}

	for _, msg := range []string{
		"Fitted sub-model",
		"Training CFRegressor",
		"Lasso did not converge",
		"Training failed",
	} {
		if !logger.ContainsMessage(msg) {
			t.Errorf("message %q not captured", msg)
		}
	}

	// JSON decoding turns numbers into float64.
	if !logger.ContainsField(DepthKey, 2.0) {
		t.Errorf("field %s=2 not captured", DepthKey)
	}
	if !logger.ContainsField(OffsetKey, 1.5) {
		t.Errorf("field %s=1.5 not captured", OffsetKey)
	}
	if !logger.ContainsField(ErrorCodeKey, ErrorSingularMatrix) {
		t.Errorf("field %s not captured", ErrorCodeKey)
	}
}

func TestTestLoggerWith(t *testing.T) {
	logger, _ := NewTestLogger(LevelDebug)

	contextual := logger.With(
		ModelNameKey, "CFRegressor",
		ComponentKey, "cfrac.regressor",
		EstimatorIDKey, "cfr-001",
	)
	contextual.Info("Training started", OperationKey, OperationFit)

	if !logger.ContainsField(ModelNameKey, "CFRegressor") {
		t.Error("model name from With not captured")
	}
	if !logger.ContainsField(ComponentKey, "cfrac.regressor") {
		t.Error("component from With not captured")
	}
	if !logger.ContainsField(OperationKey, OperationFit) {
		t.Error("operation field not captured")
	}
}

func TestTestLoggerLevelFilter(t *testing.T) {
	logger, buffer := NewTestLogger(LevelInfo)
	ctx := context.Background()

	if !logger.Enabled(ctx, LevelInfo) {
		t.Error("Info must be enabled at LevelInfo")
	}
	if !logger.Enabled(ctx, LevelError) {
		t.Error("Error must be enabled at LevelInfo")
	}
	if logger.Enabled(ctx, LevelDebug) {
		t.Error("Debug must be disabled at LevelInfo")
	}

	logger.Debug("per-depth diagnostics")
	logger.Info("training milestone")

	if logger.ContainsMessage("per-depth diagnostics") {
		t.Error("debug record captured despite LevelInfo filter")
	}
	if !logger.ContainsMessage("training milestone") {
		t.Error("info record missing")
	}

	logger.Clear()
	if buffer.String() != "" {
		t.Error("Clear left records in the buffer")
	}
}

func TestTrainingAttributeKeys(t *testing.T) {
	logger, _ := NewTestLogger(LevelInfo)

	logger.Info("Training CFRegressor",
		OperationKey, OperationFit,
		PhaseKey, PhaseTraining,
		SamplesKey, 1000,
		FeaturesKey, 10,
		MaxDepthKey, 5,
		SubModelKey, "OrdinaryLeastSquares",
		NormalizationKey, 1.0,
		DurationMsKey, 250,
	)

	entries, err := logger.GetLogEntries()
	if err != nil {
		t.Fatalf("parsing captured records: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected 1 record, got %d", len(entries))
	}

	want := map[string]interface{}{
		OperationKey:     OperationFit,
		PhaseKey:         PhaseTraining,
		SamplesKey:       1000.0,
		FeaturesKey:      10.0,
		MaxDepthKey:      5.0,
		SubModelKey:      "OrdinaryLeastSquares",
		NormalizationKey: 1.0,
		DurationMsKey:    250.0,
	}
	for key, expected := range want {
		got, ok := entries[0][key]
		if !ok {
			t.Errorf("field %s missing", key)
			continue
		}
		if got != expected {
			t.Errorf("field %s: expected %v, got %v", key, expected, got)
		}
	}
}

func TestProviderSwap(t *testing.T) {
	provider, buffer := NewTestLoggerProvider(LevelDebug)
	SetLoggerProvider(provider)
	defer SetLoggerProvider(nil)

	// The exact path the estimators take.
	logger := GetLoggerWithName("boosting.gbt")
	logger.Info("Training GBTRegressor", LearningRateKey, 0.1)

	if buffer.String() == "" {
		t.Fatal("installed provider captured nothing")
	}
	named := provider.GetLogger().(*TestLogger)
	if !named.ContainsField(ComponentKey, "boosting.gbt") {
		t.Error("component name not attached by GetLoggerWithName")
	}
	if !named.ContainsField(LearningRateKey, 0.1) {
		t.Error("learning rate field not captured")
	}
}

func TestJSONProviderStacktrace(t *testing.T) {
	var buf bytes.Buffer
	provider := newJSONProvider(&buf, slog.LevelInfo)

	logger := provider.GetLoggerWithName("cfrac.regressor")
	logger.Error("Sub-model fit failed", ErrAttr(errors.New("singular design matrix")))

	out := buf.String()
	if !strings.Contains(out, `"severity":"ERROR"`) {
		t.Errorf("level key not renamed to severity: %s", out)
	}
	if !strings.Contains(out, `"message":"Sub-model fit failed"`) {
		t.Errorf("message key not renamed: %s", out)
	}
	if !strings.Contains(out, `"ml.component":"cfrac.regressor"`) {
		t.Errorf("component attribute missing: %s", out)
	}
	if !strings.Contains(out, StacktraceAttrKey) {
		t.Errorf("stacktrace attribute not extracted from the error: %s", out)
	}
}

func TestToLogLevel(t *testing.T) {
	cases := map[string]slog.Level{
		"debug": slog.LevelDebug,
		"info":  slog.LevelInfo,
		"warn":  slog.LevelWarn,
		"error": slog.LevelError,
	}
	for name, want := range cases {
		if got := ToLogLevel(name); got != want {
			t.Errorf("ToLogLevel(%q) = %v, want %v", name, got, want)
		}
	}

	defer func() {
		if recover() == nil {
			t.Error("expected panic for an unknown level name")
		}
	}()
	ToLogLevel("verbose")
}

func TestConcurrentCapture(t *testing.T) {
	logger, _ := NewTestLogger(LevelInfo)

	const workers = 3
	const records = 3
	done := make(chan struct{}, workers)

	for w := 0; w < workers; w++ {
		go func(id int) {
			defer func() { done <- struct{}{} }()
			rowLogger := logger.With("worker_id", id)
			for r := 0; r < records; r++ {
				rowLogger.Info(fmt.Sprintf("predicted chunk %d/%d", id, r), "chunk", r)
			}
		}(w)
	}
	for w := 0; w < workers; w++ {
		<-done
	}

	entries, err := logger.GetLogEntries()
	if err != nil {
		t.Fatalf("parsing captured records: %v", err)
	}
	if len(entries) != workers*records {
		t.Errorf("expected %d records, got %d", workers*records, len(entries))
	}
}

func BenchmarkTestLoggerCapture(b *testing.B) {
	logger, _ := NewTestLogger(LevelInfo)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		logger.Info("benchmark record",
			"iteration", i,
			OperationKey, OperationPredict,
			SamplesKey, 1000,
		)
	}
}

func BenchmarkContextualCapture(b *testing.B) {
	logger, _ := NewTestLogger(LevelInfo)
	contextual := logger.With(
		ModelNameKey, "CFRegressor",
		ComponentKey, "benchmark",
	)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		contextual.Info("benchmark record",
			"iteration", i,
			OperationKey, OperationPredict,
			SamplesKey, 1000,
		)
	}
}
