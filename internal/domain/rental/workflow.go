package rental

import "github.com/velocore/backend/internal/domain/shared"

// Workflow guards are pure checks used by both the service layer and the API
// to answer "can this happen" without side effects.

// CanRent allows renting only available, active assets
func CanRent(asset *Asset) shared.GuardResult {
	if asset.Status != AssetStatusAvailable {
		return shared.Deny("Asset is not available")
	}
	if !asset.IsActive {
		return shared.Deny("Asset is not active")
	}
	return shared.Allow()
}

// CanReturn allows returning active or overdue contracts
func CanReturn(contract *RentalContract) shared.GuardResult {
	if contract.Status != ContractStatusActive && contract.Status != ContractStatusOverdue {
		return shared.Deny("Contract is not active or overdue")
	}
	return shared.Allow()
}

// CanRequestRepair allows repair requests for any asset that is not retired
// or lost.
func CanRequestRepair(asset *Asset) shared.GuardResult {
	if asset.Status.IsTerminal() {
		return shared.Deny("Asset is retired or lost")
	}
	return shared.Allow()
}
