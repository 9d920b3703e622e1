package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"maintenance-system/internal/dto"
	"maintenance-system/internal/entities"
	"maintenance-system/internal/repositories"
	"maintenance-system/pkg/constants"
	apperrors "maintenance-system/pkg/errors"
	"maintenance-system/pkg/types"
)

// The fakes below back the service tests with in-memory state so the
// lifecycle rules can be exercised without a database.

type fakeTxManager struct{}

func (f *fakeTxManager) RunInTransaction(ctx context.Context, fn func(q repositories.Querier) error) error {
	return fn(nil)
}

// --- equipment ---

type fakeEquipmentRepo struct {
	items  map[string]*entities.Equipment
	nextID int
}

func newFakeEquipmentRepo() *fakeEquipmentRepo {
	return &fakeEquipmentRepo{items: make(map[string]*entities.Equipment)}
}

func (f *fakeEquipmentRepo) add(status constants.EquipmentStatus) *entities.Equipment {
	f.nextID++
	eq := &entities.Equipment{
		ID:     fmt.Sprintf("eq-%d", f.nextID),
		Name:   fmt.Sprintf("Tractor %d", f.nextID),
		Status: status,
	}
	f.items[eq.ID] = eq
	return eq
}

func (f *fakeEquipmentRepo) CreateEquipment(ctx context.Context, eq *entities.Equipment) error {
	f.nextID++
	eq.ID = fmt.Sprintf("eq-%d", f.nextID)
	if eq.Status == "" {
		eq.Status = constants.EquipmentActive
	}
	f.items[eq.ID] = eq
	return nil
}

func (f *fakeEquipmentRepo) FindEquipment(ctx context.Context, id string) (*entities.Equipment, error) {
	eq, ok := f.items[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return eq, nil
}

func (f *fakeEquipmentRepo) ListEquipment(ctx context.Context, filter types.Filter) ([]entities.Equipment, uint64, error) {
	out := make([]entities.Equipment, 0, len(f.items))
	for _, eq := range f.items {
		out = append(out, *eq)
	}
	return out, uint64(len(out)), nil
}

func (f *fakeEquipmentRepo) UpdateEquipment(ctx context.Context, id string, upd dto.UpdateEquipmentDTO) error {
	eq, ok := f.items[id]
	if !ok {
		return apperrors.ErrNotFound
	}
	if upd.Name != nil {
		eq.Name = *upd.Name
	}
	if upd.Status != nil {
		eq.Status = constants.EquipmentStatus(*upd.Status)
	}
	return nil
}

func (f *fakeEquipmentRepo) DeleteEquipment(ctx context.Context, id string) error {
	if _, ok := f.items[id]; !ok {
		return apperrors.ErrNotFound
	}
	delete(f.items, id)
	return nil
}

func (f *fakeEquipmentRepo) GetStatus(ctx context.Context, id string) (constants.EquipmentStatus, error) {
	eq, ok := f.items[id]
	if !ok {
		return "", apperrors.ErrNotFound
	}
	return eq.Status, nil
}

func (f *fakeEquipmentRepo) UpdateStatusCAS(ctx context.Context, id string, expected, target constants.EquipmentStatus) (bool, error) {
	eq, ok := f.items[id]
	if !ok {
		return false, apperrors.ErrNotFound
	}
	if eq.Status != expected {
		return false, nil
	}
	eq.Status = target
	return true, nil
}

// --- reservations ---

type fakeReservationRepo struct {
	items  map[string]*entities.Reservation
	nextID int
}

func newFakeReservationRepo() *fakeReservationRepo {
	return &fakeReservationRepo{items: make(map[string]*entities.Reservation)}
}

func (f *fakeReservationRepo) FindReservation(ctx context.Context, id string) (*entities.Reservation, error) {
	res, ok := f.items[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return res, nil
}

func (f *fakeReservationRepo) findConflict(equipmentID string, start time.Time, end *time.Time) *entities.Reservation {
	var earliest *entities.Reservation
	for _, res := range f.items {
		if res.EquipmentID != equipmentID || res.Status != constants.ReservationActive {
			continue
		}
		if !res.Overlaps(start, end) {
			continue
		}
		if earliest == nil || res.StartTime.Before(earliest.StartTime) {
			earliest = res
		}
	}
	return earliest
}

func (f *fakeReservationRepo) FindConflict(ctx context.Context, equipmentID string, start time.Time, end *time.Time) (*entities.Reservation, error) {
	return f.findConflict(equipmentID, start, end), nil
}

func (f *fakeReservationRepo) FindConflictInTx(ctx context.Context, q repositories.Querier, equipmentID string, start time.Time, end *time.Time) (*entities.Reservation, error) {
	return f.findConflict(equipmentID, start, end), nil
}

func (f *fakeReservationRepo) LockEquipmentInTx(ctx context.Context, q repositories.Querier, equipmentID string) error {
	return nil
}

func (f *fakeReservationRepo) CreateInTx(ctx context.Context, q repositories.Querier, res *entities.Reservation) error {
	f.nextID++
	res.ID = fmt.Sprintf("res-%d", f.nextID)
	res.Status = constants.ReservationActive
	f.items[res.ID] = res
	return nil
}

func (f *fakeReservationRepo) CompleteReservation(ctx context.Context, id string, now time.Time) error {
	res, ok := f.items[id]
	if !ok {
		return apperrors.ErrNotFound
	}
	if res.Status != constants.ReservationActive || res.StartTime.After(now) {
		return apperrors.ErrInvalidState
	}
	res.Status = constants.ReservationCompleted
	res.EndTime.SetValid(now)
	return nil
}

func (f *fakeReservationRepo) CancelReservation(ctx context.Context, id string, now time.Time) error {
	res, ok := f.items[id]
	if !ok {
		return apperrors.ErrNotFound
	}
	if res.Status != constants.ReservationActive || !res.StartTime.After(now) {
		return apperrors.ErrInvalidState
	}
	res.Status = constants.ReservationCancelled
	return nil
}

func (f *fakeReservationRepo) ExpireDueReservations(ctx context.Context, now time.Time) (int64, error) {
	var expired int64
	for _, res := range f.items {
		if res.Status == constants.ReservationActive && res.EndTime.Valid && !res.EndTime.Time.After(now) {
			res.Status = constants.ReservationCompleted
			expired++
		}
	}
	return expired, nil
}

func (f *fakeReservationRepo) ListByUser(ctx context.Context, userID string) ([]entities.Reservation, error) {
	out := make([]entities.Reservation, 0)
	for _, res := range f.items {
		if res.UserID == userID {
			out = append(out, *res)
		}
	}
	return out, nil
}

func (f *fakeReservationRepo) ListActive(ctx context.Context) ([]entities.Reservation, error) {
	out := make([]entities.Reservation, 0)
	for _, res := range f.items {
		if res.Status == constants.ReservationActive {
			out = append(out, *res)
		}
	}
	return out, nil
}

func (f *fakeReservationRepo) FindActiveForEquipment(ctx context.Context, equipmentID string) (*entities.Reservation, error) {
	for _, res := range f.items {
		if res.EquipmentID == equipmentID && res.Status == constants.ReservationActive {
			return res, nil
		}
	}
	return nil, apperrors.ErrNotFound
}

// --- work orders ---

type fakeWorkOrderRepo struct {
	items  map[string]*entities.WorkOrder
	nextID int
}

func newFakeWorkOrderRepo() *fakeWorkOrderRepo {
	return &fakeWorkOrderRepo{items: make(map[string]*entities.WorkOrder)}
}

func (f *fakeWorkOrderRepo) CreateWorkOrder(ctx context.Context, wo *entities.WorkOrder) error {
	f.nextID++
	wo.ID = fmt.Sprintf("wo-%d", f.nextID)
	if wo.Checklist == nil {
		wo.Checklist = make([]entities.ChecklistItem, 0)
	}
	f.items[wo.ID] = wo
	return nil
}

func (f *fakeWorkOrderRepo) FindWorkOrder(ctx context.Context, id string) (*entities.WorkOrder, error) {
	wo, ok := f.items[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	copied := *wo
	return &copied, nil
}

func (f *fakeWorkOrderRepo) ListWorkOrders(ctx context.Context, filter types.Filter) ([]entities.WorkOrder, uint64, error) {
	out := make([]entities.WorkOrder, 0, len(f.items))
	for _, wo := range f.items {
		out = append(out, *wo)
	}
	return out, uint64(len(out)), nil
}

func (f *fakeWorkOrderRepo) UpdateWorkOrder(ctx context.Context, id string, upd dto.UpdateWorkOrderDTO) error {
	wo, ok := f.items[id]
	if !ok {
		return apperrors.ErrNotFound
	}
	if upd.Title != nil {
		wo.Title = *upd.Title
	}
	if upd.Priority != nil {
		wo.Priority = constants.WorkOrderPriority(*upd.Priority)
	}
	if upd.Checklist != nil {
		wo.Checklist = upd.Checklist
	}
	return nil
}

func (f *fakeWorkOrderRepo) DeleteWorkOrder(ctx context.Context, id string) error {
	if _, ok := f.items[id]; !ok {
		return apperrors.ErrNotFound
	}
	delete(f.items, id)
	return nil
}

func (f *fakeWorkOrderRepo) UpdateStatusInTx(ctx context.Context, q repositories.Querier, id string, from, to constants.WorkOrderStatus) error {
	wo, ok := f.items[id]
	if !ok {
		return apperrors.ErrNotFound
	}
	if wo.Status != from {
		return apperrors.ErrInvalidState
	}
	wo.Status = to
	return nil
}

func (f *fakeWorkOrderRepo) CompleteInTx(ctx context.Context, q repositories.Querier, id string, logID string, actualHours, actualCost *float64, checklist []entities.ChecklistItem, completedAt time.Time) error {
	wo, ok := f.items[id]
	if !ok {
		return apperrors.ErrNotFound
	}
	if wo.Status.IsTerminal() {
		return apperrors.ErrInvalidState
	}
	wo.Status = constants.WorkOrderCompleted
	wo.CompletedAt.SetValid(completedAt)
	wo.CompletedMaintenanceLogID.SetValid(logID)
	if actualHours != nil {
		wo.ActualHours.SetValid(*actualHours)
	}
	if actualCost != nil {
		wo.ActualCost.SetValid(*actualCost)
	}
	wo.Checklist = checklist
	return nil
}

func (f *fakeWorkOrderRepo) CloseWorkOrder(ctx context.Context, id string, now time.Time) error {
	wo, ok := f.items[id]
	if !ok {
		return apperrors.ErrNotFound
	}
	if wo.Status != constants.WorkOrderCompleted {
		return apperrors.ErrInvalidState
	}
	wo.Status = constants.WorkOrderClosed
	wo.ClosedAt.SetValid(now)
	return nil
}

func (f *fakeWorkOrderRepo) CountBlocking(ctx context.Context, equipmentID string) (int, error) {
	count := 0
	for _, wo := range f.items {
		if wo.EquipmentID != equipmentID {
			continue
		}
		if wo.Status == constants.WorkOrderInProgress || wo.Status == constants.WorkOrderWaitingParts {
			count++
		}
	}
	return count, nil
}

func (f *fakeWorkOrderRepo) CountOpenByEquipment(ctx context.Context) (map[string]int, error) {
	counts := make(map[string]int)
	for _, wo := range f.items {
		if !wo.Status.IsTerminal() {
			counts[wo.EquipmentID]++
		}
	}
	return counts, nil
}

func (f *fakeWorkOrderRepo) DashboardCounts(ctx context.Context, now time.Time) (*dto.WorkOrderDashboardDTO, error) {
	d := &dto.WorkOrderDashboardDTO{}
	nextWeek := now.Add(7 * 24 * time.Hour)
	for _, wo := range f.items {
		switch wo.Status {
		case constants.WorkOrderOpen, constants.WorkOrderScheduled, constants.WorkOrderInProgress:
			if wo.DueDate.Valid && wo.DueDate.Time.Before(now) {
				d.Overdue++
			} else if wo.DueDate.Valid && !wo.DueDate.Time.After(nextWeek) {
				d.ThisWeek++
			}
		}
		if wo.Type == constants.WorkOrderTypeCorrective &&
			(wo.Status == constants.WorkOrderOpen || wo.Status == constants.WorkOrderInProgress) {
			d.OpenFaults++
		}
		if wo.Status == constants.WorkOrderScheduled {
			d.Scheduled++
		}
	}
	return d, nil
}

// --- comments ---

type fakeCommentRepo struct {
	comments []entities.WorkOrderComment
	nextID   int
}

func (f *fakeCommentRepo) CreateComment(ctx context.Context, comment *entities.WorkOrderComment) error {
	return f.CreateCommentInTx(ctx, nil, comment)
}

func (f *fakeCommentRepo) CreateCommentInTx(ctx context.Context, q repositories.Querier, comment *entities.WorkOrderComment) error {
	f.nextID++
	comment.ID = fmt.Sprintf("cm-%d", f.nextID)
	f.comments = append(f.comments, *comment)
	return nil
}

func (f *fakeCommentRepo) ListComments(ctx context.Context, workOrderID string) ([]entities.WorkOrderComment, error) {
	out := make([]entities.WorkOrderComment, 0)
	for _, c := range f.comments {
		if c.WorkOrderID == workOrderID {
			out = append(out, c)
		}
	}
	return out, nil
}

// --- maintenance logs ---

type fakeLogRepo struct {
	logs   []entities.MaintenanceLog
	nextID int
}

func (f *fakeLogRepo) CreateLog(ctx context.Context, log *entities.MaintenanceLog) error {
	return f.CreateLogInTx(ctx, nil, log)
}

func (f *fakeLogRepo) CreateLogInTx(ctx context.Context, q repositories.Querier, log *entities.MaintenanceLog) error {
	f.nextID++
	log.ID = fmt.Sprintf("ml-%d", f.nextID)
	f.logs = append(f.logs, *log)
	return nil
}

func (f *fakeLogRepo) FindLog(ctx context.Context, id string) (*entities.MaintenanceLog, error) {
	for i := range f.logs {
		if f.logs[i].ID == id {
			return &f.logs[i], nil
		}
	}
	return nil, apperrors.ErrNotFound
}

func (f *fakeLogRepo) ListLogs(ctx context.Context, filter types.Filter) ([]entities.MaintenanceLog, uint64, error) {
	return f.logs, uint64(len(f.logs)), nil
}

func (f *fakeLogRepo) ListLogsInRange(ctx context.Context, from, to time.Time) ([]entities.MaintenanceLog, error) {
	out := make([]entities.MaintenanceLog, 0)
	for _, log := range f.logs {
		if !log.PerformedDate.Before(from) && !log.PerformedDate.After(to) {
			out = append(out, log)
		}
	}
	return out, nil
}

func (f *fakeLogRepo) UpdateLog(ctx context.Context, id string, upd dto.UpdateMaintenanceLogDTO) error {
	for i := range f.logs {
		if f.logs[i].ID == id {
			if upd.Description != nil {
				f.logs[i].Description = *upd.Description
			}
			return nil
		}
	}
	return apperrors.ErrNotFound
}

func (f *fakeLogRepo) DeleteLog(ctx context.Context, id string) error {
	for i := range f.logs {
		if f.logs[i].ID == id {
			f.logs = append(f.logs[:i], f.logs[i+1:]...)
			return nil
		}
	}
	return apperrors.ErrNotFound
}

func (f *fakeLogRepo) findByDescription(fragment string) *entities.MaintenanceLog {
	for i := range f.logs {
		if strings.Contains(f.logs[i].Description, fragment) {
			return &f.logs[i]
		}
	}
	return nil
}

// --- cache ---

type fakeCacheRepo struct {
	values map[string]string
}

func newFakeCacheRepo() *fakeCacheRepo {
	return &fakeCacheRepo{values: make(map[string]string)}
}

func (f *fakeCacheRepo) Get(ctx context.Context, key string) (string, error) {
	v, ok := f.values[key]
	if !ok {
		return "", fmt.Errorf("cache miss: %s", key)
	}
	return v, nil
}

func (f *fakeCacheRepo) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	f.values[key] = fmt.Sprintf("%s", value)
	return nil
}

func (f *fakeCacheRepo) SetNX(ctx context.Context, key string, value interface{}, expiration time.Duration) (bool, error) {
	if _, ok := f.values[key]; ok {
		return false, nil
	}
	f.values[key] = fmt.Sprintf("%s", value)
	return true, nil
}

func (f *fakeCacheRepo) Del(ctx context.Context, keys ...string) error {
	for _, key := range keys {
		delete(f.values, key)
	}
	return nil
}
