package booking

import (
	"time"

	"github.com/glintwash/glintwash-client/pkg/enums"
	pkgerrors "github.com/glintwash/glintwash-client/pkg/errors"
	"github.com/google/uuid"
)

// Step names one screen of the booking flow.
type Step string

const (
	StepBranchService    Step = "branch_service"
	StepPackageSelection Step = "package_selection"
	StepExtrasSchedule   Step = "extras_schedule"
	StepSummary          Step = "summary"
)

// Details is the accumulated form state. Purely local; nothing is sent
// anywhere until Confirm, and Confirm itself stays local too (see below).
type Details struct {
	BranchID     int64
	ServiceTypes []enums.ServiceType
	VehicleModel string
	PlateNumber  string
	Packages     map[enums.ServiceType]int64
	Extras       []string
	Date         time.Time
	TimeSlot     string
}

// Confirmation is the local receipt produced by Confirm.
type Confirmation struct {
	Reference string
	Details   Details
}

// Wizard is the multi-step booking form. Forward transitions validate the
// current step; backward transitions are unconditional. Package selection
// runs one sub-step per selected service type.
//
// Confirm deliberately does not call any order-creation endpoint: the web
// front end it mirrors never wired its booking flow to the backend, only
// the product checkout does. Preserved as-is rather than silently changed.
type Wizard struct {
	step    Step
	subStep int
	details Details
}

// NewWizard starts a fresh booking at the first step.
func NewWizard() *Wizard {
	return &Wizard{
		step: StepBranchService,
		details: Details{
			Packages: map[enums.ServiceType]int64{},
		},
	}
}

func (w *Wizard) Step() Step { return w.step }

// SubStep reports the index within package selection, zero elsewhere.
func (w *Wizard) SubStep() int { return w.subStep }

// Details returns a copy of the accumulated form state.
func (w *Wizard) Details() Details {
	details := w.details
	details.ServiceTypes = append([]enums.ServiceType(nil), w.details.ServiceTypes...)
	details.Extras = append([]string(nil), w.details.Extras...)
	details.Packages = make(map[enums.ServiceType]int64, len(w.details.Packages))
	for serviceType, packageID := range w.details.Packages {
		details.Packages[serviceType] = packageID
	}
	return details
}

func (w *Wizard) SetBranch(branchID int64) { w.details.BranchID = branchID }

func (w *Wizard) SetServiceTypes(serviceTypes ...enums.ServiceType) {
	w.details.ServiceTypes = append([]enums.ServiceType(nil), serviceTypes...)
}

func (w *Wizard) SetVehicle(model, plate string) {
	w.details.VehicleModel = model
	w.details.PlateNumber = plate
}

func (w *Wizard) SelectPackage(serviceType enums.ServiceType, packageID int64) {
	w.details.Packages[serviceType] = packageID
}

func (w *Wizard) SetExtras(extras ...string) {
	w.details.Extras = append([]string(nil), extras...)
}

func (w *Wizard) SetSchedule(date time.Time, timeSlot string) {
	w.details.Date = date
	w.details.TimeSlot = timeSlot
}

// Next advances to the following step after validating the current one.
func (w *Wizard) Next() error {
	switch w.step {
	case StepBranchService:
		if err := w.validateBranchService(); err != nil {
			return err
		}
		w.step = StepPackageSelection
		w.subStep = 0
		return nil
	case StepPackageSelection:
		serviceType := w.details.ServiceTypes[w.subStep]
		if _, ok := w.details.Packages[serviceType]; !ok {
			return pkgerrors.New(pkgerrors.CodeValidation, "select a package for "+serviceType.String())
		}
		if w.subStep+1 < len(w.details.ServiceTypes) {
			w.subStep++
			return nil
		}
		w.step = StepExtrasSchedule
		w.subStep = 0
		return nil
	case StepExtrasSchedule:
		if w.details.Date.IsZero() || w.details.TimeSlot == "" {
			return pkgerrors.New(pkgerrors.CodeValidation, "pick a date and time slot")
		}
		w.step = StepSummary
		return nil
	}
	return pkgerrors.New(pkgerrors.CodeConflict, "already at the summary step")
}

// Back steps backwards unconditionally, keeping all entered values.
func (w *Wizard) Back() {
	switch w.step {
	case StepPackageSelection:
		if w.subStep > 0 {
			w.subStep--
			return
		}
		w.step = StepBranchService
	case StepExtrasSchedule:
		w.step = StepPackageSelection
		if len(w.details.ServiceTypes) > 0 {
			w.subStep = len(w.details.ServiceTypes) - 1
		}
	case StepSummary:
		w.step = StepExtrasSchedule
	}
}

// Confirm validates the summary and hands back a local confirmation.
func (w *Wizard) Confirm() (*Confirmation, error) {
	if w.step != StepSummary {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "finish the previous steps first")
	}
	if err := w.validateBranchService(); err != nil {
		return nil, err
	}
	for _, serviceType := range w.details.ServiceTypes {
		if _, ok := w.details.Packages[serviceType]; !ok {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "select a package for "+serviceType.String())
		}
	}
	if w.details.Date.IsZero() || w.details.TimeSlot == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "pick a date and time slot")
	}
	return &Confirmation{
		Reference: uuid.NewString(),
		Details:   w.Details(),
	}, nil
}

func (w *Wizard) validateBranchService() error {
	if w.details.BranchID == 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "select a branch")
	}
	if len(w.details.ServiceTypes) == 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "select at least one service")
	}
	for _, serviceType := range w.details.ServiceTypes {
		if !serviceType.IsValid() {
			return pkgerrors.New(pkgerrors.CodeValidation, "unknown service type "+serviceType.String())
		}
	}
	if w.details.VehicleModel == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "enter the vehicle model")
	}
	if w.details.PlateNumber == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "enter the plate number")
	}
	return nil
}
