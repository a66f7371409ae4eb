package identity

import (
	"sort"
	"strings"
)

// Permission is one entry of the static permission table. The table is fixed
// at compile time and exposed read-only through the API.
type Permission struct {
	Code        string `json:"code"`
	Resource    string `json:"resource"`
	Action      string `json:"action"`
	Description string `json:"description"`
}

// Permission resources
const (
	ResourceItem            = "item"
	ResourceWarehouse       = "warehouse"
	ResourceInventory       = "inventory"
	ResourceRequisition     = "requisition"
	ResourcePurchaseOrder   = "purchase_order"
	ResourceGoodsReceipt    = "goods_receipt"
	ResourceBOM             = "bom"
	ResourceProductionOrder = "production_order"
	ResourceMaterialIssue   = "material_issue"
	ResourceQualityCheck    = "quality_check"
	ResourceAsset           = "asset"
	ResourceRentalContract  = "rental_contract"
	ResourceRepairOrder     = "repair_order"
	ResourceUser            = "user"
	ResourceRole            = "role"
)

// Permission actions
const (
	ActionCreate   = "create"
	ActionRead     = "read"
	ActionUpdate   = "update"
	ActionDelete   = "delete"
	ActionPost     = "post"
	ActionCancel   = "cancel"
	ActionApprove  = "approve"
	ActionAdjust   = "adjust"
	ActionTransfer = "transfer"
)

var crudActions = []string{ActionCreate, ActionRead, ActionUpdate, ActionDelete}

// permissionTable is built once at package init and never mutated afterwards.
var permissionTable = buildPermissionTable()

func buildPermissionTable() map[string]Permission {
	table := make(map[string]Permission)

	add := func(resource string, actions ...string) {
		for _, action := range actions {
			code := resource + ":" + action
			table[code] = Permission{
				Code:     code,
				Resource: resource,
				Action:   action,
			}
		}
	}

	add(ResourceItem, crudActions...)
	add(ResourceWarehouse, crudActions...)
	add(ResourceInventory, ActionRead, ActionAdjust, ActionTransfer)
	add(ResourceRequisition, crudActions...)
	add(ResourceRequisition, ActionApprove)
	add(ResourcePurchaseOrder, crudActions...)
	add(ResourcePurchaseOrder, ActionApprove, ActionCancel)
	add(ResourceGoodsReceipt, crudActions...)
	add(ResourceGoodsReceipt, ActionPost, ActionCancel)
	add(ResourceBOM, crudActions...)
	add(ResourceProductionOrder, crudActions...)
	add(ResourceProductionOrder, ActionCancel)
	add(ResourceMaterialIssue, crudActions...)
	add(ResourceMaterialIssue, ActionPost, ActionCancel)
	add(ResourceQualityCheck, crudActions...)
	add(ResourceAsset, crudActions...)
	add(ResourceRentalContract, crudActions...)
	add(ResourceRepairOrder, crudActions...)
	add(ResourceUser, crudActions...)
	add(ResourceRole, crudActions...)

	return table
}

// IsKnownPermission reports whether a code exists in the static table
func IsKnownPermission(code string) bool {
	_, ok := permissionTable[code]
	return ok
}

// LookupPermission returns the permission entry for a code
func LookupPermission(code string) (Permission, bool) {
	p, ok := permissionTable[code]
	return p, ok
}

// AllPermissions returns the full table sorted by code
func AllPermissions() []Permission {
	result := make([]Permission, 0, len(permissionTable))
	for _, p := range permissionTable {
		result = append(result, p)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Code < result[j].Code })
	return result
}

// PermissionsForResource returns the table entries for one resource
func PermissionsForResource(resource string) []Permission {
	resource = strings.ToLower(strings.TrimSpace(resource))
	result := make([]Permission, 0)
	for _, p := range permissionTable {
		if p.Resource == resource {
			result = append(result, p)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Code < result[j].Code })
	return result
}
