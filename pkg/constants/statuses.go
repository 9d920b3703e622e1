package constants

// --- EQUIPMENT STATUSES (match the codes stored in DB) ---

type EquipmentStatus string

const (
	EquipmentActive      EquipmentStatus = "active"
	EquipmentMaintenance EquipmentStatus = "maintenance"
	EquipmentInactive    EquipmentStatus = "inactive"
)

func (s EquipmentStatus) IsValid() bool {
	switch s {
	case EquipmentActive, EquipmentMaintenance, EquipmentInactive:
		return true
	}
	return false
}

func (s EquipmentStatus) String() string { return string(s) }

// --- RESERVATION STATUSES ---

type ReservationStatus string

const (
	ReservationActive    ReservationStatus = "active"
	ReservationCompleted ReservationStatus = "completed"
	ReservationCancelled ReservationStatus = "cancelled"
)

func (s ReservationStatus) IsValid() bool {
	switch s {
	case ReservationActive, ReservationCompleted, ReservationCancelled:
		return true
	}
	return false
}

func (s ReservationStatus) IsTerminal() bool {
	return s == ReservationCompleted || s == ReservationCancelled
}

func (s ReservationStatus) String() string { return string(s) }

// --- WORK ORDER STATUSES ---

type WorkOrderStatus string

const (
	WorkOrderOpen         WorkOrderStatus = "open"
	WorkOrderScheduled    WorkOrderStatus = "scheduled"
	WorkOrderInProgress   WorkOrderStatus = "in_progress"
	WorkOrderWaitingParts WorkOrderStatus = "waiting_parts"
	WorkOrderCompleted    WorkOrderStatus = "completed"
	WorkOrderClosed       WorkOrderStatus = "closed"
)

func (s WorkOrderStatus) IsValid() bool {
	switch s {
	case WorkOrderOpen, WorkOrderScheduled, WorkOrderInProgress,
		WorkOrderWaitingParts, WorkOrderCompleted, WorkOrderClosed:
		return true
	}
	return false
}

func (s WorkOrderStatus) IsTerminal() bool {
	return s == WorkOrderCompleted || s == WorkOrderClosed
}

func (s WorkOrderStatus) String() string { return string(s) }

// BlockingStatuses are the work order states that take equipment out of
// service. Used by the status resolver.
var BlockingStatuses = []WorkOrderStatus{WorkOrderInProgress, WorkOrderWaitingParts}

// OpenStatuses cover every non-terminal work order state.
var OpenStatuses = []WorkOrderStatus{WorkOrderOpen, WorkOrderScheduled, WorkOrderInProgress, WorkOrderWaitingParts}

// workOrderTransitions holds the transitions allowed through the generic
// Transition operation. Work starts only from open, so a scheduled order
// must move back to open first. Completed and closed are only reachable
// through Complete/Close.
var workOrderTransitions = map[WorkOrderStatus][]WorkOrderStatus{
	WorkOrderOpen:         {WorkOrderInProgress},
	WorkOrderScheduled:    {WorkOrderOpen},
	WorkOrderInProgress:   {WorkOrderWaitingParts, WorkOrderOpen},
	WorkOrderWaitingParts: {WorkOrderInProgress, WorkOrderOpen},
}

func (s WorkOrderStatus) CanTransitionTo(target WorkOrderStatus) bool {
	for _, allowed := range workOrderTransitions[s] {
		if allowed == target {
			return true
		}
	}
	return false
}

// --- WORK ORDER TYPES ---

type WorkOrderType string

const (
	WorkOrderTypeScheduled  WorkOrderType = "scheduled"
	WorkOrderTypeCorrective WorkOrderType = "corrective"
	WorkOrderTypeInspection WorkOrderType = "inspection"
)

func (t WorkOrderType) IsValid() bool {
	switch t {
	case WorkOrderTypeScheduled, WorkOrderTypeCorrective, WorkOrderTypeInspection:
		return true
	}
	return false
}

func (t WorkOrderType) String() string { return string(t) }

// --- WORK ORDER PRIORITIES ---

type WorkOrderPriority string

const (
	PriorityLow    WorkOrderPriority = "low"
	PriorityMedium WorkOrderPriority = "medium"
	PriorityHigh   WorkOrderPriority = "high"
	PriorityUrgent WorkOrderPriority = "urgent"
)

func (p WorkOrderPriority) IsValid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh, PriorityUrgent:
		return true
	}
	return false
}

func (p WorkOrderPriority) String() string { return string(p) }
