package repair

import "github.com/velocore/backend/internal/domain/shared"

// CanStartRepair allows starting requested or queued repairs
func CanStartRepair(order *RepairOrder) shared.GuardResult {
	if order.Status != RepairStatusRequested && order.Status != RepairStatusPending {
		return shared.Deny("Repair is not requested or pending")
	}
	return shared.Allow()
}

// CanCompleteRepair allows completing only repairs that are in progress
func CanCompleteRepair(order *RepairOrder) shared.GuardResult {
	if order.Status != RepairStatusInProgress {
		return shared.Deny("Repair is not in progress")
	}
	return shared.Allow()
}
