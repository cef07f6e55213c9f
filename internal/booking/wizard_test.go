package booking

import (
	"testing"
	"time"

	"github.com/glintwash/glintwash-client/pkg/enums"
	pkgerrors "github.com/glintwash/glintwash-client/pkg/errors"
)

func completeFirstStep(w *Wizard) {
	w.SetBranch(5)
	w.SetServiceTypes(enums.ServiceTypeCarWash, enums.ServiceTypeDetailing)
	w.SetVehicle("Corolla", "ABC-123")
}

func TestNextBlocksIncompleteBranchStep(t *testing.T) {
	t.Parallel()

	w := NewWizard()
	w.SetBranch(5)
	w.SetServiceTypes(enums.ServiceTypeCarWash)

	err := w.Next()
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
	if w.Step() != StepBranchService {
		t.Fatalf("step must not advance, at %s", w.Step())
	}
}

func TestPackageSelectionRunsOneSubStepPerService(t *testing.T) {
	t.Parallel()

	w := NewWizard()
	completeFirstStep(w)
	if err := w.Next(); err != nil {
		t.Fatalf("advance to packages: %v", err)
	}

	// First sub-step wants a car wash package.
	if err := w.Next(); pkgerrors.As(err) == nil {
		t.Fatal("missing package must block")
	}
	w.SelectPackage(enums.ServiceTypeCarWash, 11)
	if err := w.Next(); err != nil {
		t.Fatalf("first package sub-step: %v", err)
	}
	if w.Step() != StepPackageSelection || w.SubStep() != 1 {
		t.Fatalf("expected second package sub-step, at %s/%d", w.Step(), w.SubStep())
	}

	w.SelectPackage(enums.ServiceTypeDetailing, 21)
	if err := w.Next(); err != nil {
		t.Fatalf("second package sub-step: %v", err)
	}
	if w.Step() != StepExtrasSchedule {
		t.Fatalf("expected extras step, at %s", w.Step())
	}
}

func TestBackIsUnconditionalAndKeepsState(t *testing.T) {
	t.Parallel()

	w := NewWizard()
	completeFirstStep(w)
	if err := w.Next(); err != nil {
		t.Fatalf("next: %v", err)
	}

	w.Back()
	if w.Step() != StepBranchService {
		t.Fatalf("expected first step, at %s", w.Step())
	}
	if details := w.Details(); details.VehicleModel != "Corolla" {
		t.Fatalf("state must survive going back, got %+v", details)
	}
}

func TestExtrasScheduleRequiresDateAndTime(t *testing.T) {
	t.Parallel()

	w := NewWizard()
	completeFirstStep(w)
	w.SelectPackage(enums.ServiceTypeCarWash, 11)
	w.SelectPackage(enums.ServiceTypeDetailing, 21)
	for range 3 {
		if err := w.Next(); err != nil {
			t.Fatalf("advance: %v", err)
		}
	}
	if w.Step() != StepExtrasSchedule {
		t.Fatalf("expected extras step, at %s", w.Step())
	}

	if err := w.Next(); pkgerrors.As(err) == nil {
		t.Fatal("missing schedule must block")
	}

	w.SetSchedule(time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC), "10:30")
	if err := w.Next(); err != nil {
		t.Fatalf("advance to summary: %v", err)
	}
	if w.Step() != StepSummary {
		t.Fatalf("expected summary, at %s", w.Step())
	}
}

func TestConfirmOnlyAtSummaryAndStaysLocal(t *testing.T) {
	t.Parallel()

	w := NewWizard()
	if _, err := w.Confirm(); pkgerrors.As(err) == nil {
		t.Fatal("confirm before summary must fail")
	}

	completeFirstStep(w)
	w.SelectPackage(enums.ServiceTypeCarWash, 11)
	w.SelectPackage(enums.ServiceTypeDetailing, 21)
	w.SetExtras("engine bay", "pet hair removal")
	w.SetSchedule(time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC), "10:30")
	for range 4 {
		if err := w.Next(); err != nil && w.Step() != StepSummary {
			t.Fatalf("advance: %v", err)
		}
	}

	confirmation, err := w.Confirm()
	if err != nil {
		t.Fatalf("confirm: %v", err)
	}
	if confirmation.Reference == "" {
		t.Fatal("expected a local reference")
	}
	if confirmation.Details.TimeSlot != "10:30" || len(confirmation.Details.Extras) != 2 {
		t.Fatalf("confirmation must snapshot the form, got %+v", confirmation.Details)
	}
}
