package ecs

import (
	"fmt"
	"time"
)

// ==============================================
// Error Type
// ==============================================

// ECSError is the single structural-failure error type for the core. It
// carries a stable Code from the taxonomy below plus whatever Entity /
// Component / System context was available when it was raised.
type ECSError struct {
	Code      string    `json:"code"`
	Message   string    `json:"message"`
	Component string    `json:"component,omitempty"`
	Entity    EntityID  `json:"entity,omitempty"`
	System    string    `json:"system,omitempty"`
	Timestamp time.Time `json:"timestamp"`
	Details   string    `json:"details,omitempty"`
}

// Error implements the error interface.
func (e *ECSError) Error() string {
	switch {
	case e.Entity != InvalidEntityID && e.Component != "":
		return fmt.Sprintf("[%s] %s (entity=%d component=%s)", e.Code, e.Message, e.Entity, e.Component)
	case e.Entity != InvalidEntityID:
		return fmt.Sprintf("[%s] %s (entity=%d)", e.Code, e.Message, e.Entity)
	case e.Component != "":
		return fmt.Sprintf("[%s] %s (component=%s)", e.Code, e.Message, e.Component)
	case e.System != "":
		return fmt.Sprintf("[%s] %s (system=%s)", e.Code, e.Message, e.System)
	default:
		return fmt.Sprintf("[%s] %s", e.Code, e.Message)
	}
}

// WithEntity attaches entity context and returns the receiver for chaining.
func (e *ECSError) WithEntity(id EntityID) *ECSError {
	e.Entity = id
	return e
}

// WithComponent attaches component context and returns the receiver for chaining.
func (e *ECSError) WithComponent(t ComponentType) *ECSError {
	e.Component = string(t)
	return e
}

// WithSystem attaches system context and returns the receiver for chaining.
func (e *ECSError) WithSystem(name SystemName) *ECSError {
	e.System = string(name)
	return e
}

// WithDetails attaches free-form detail text and returns the receiver for chaining.
func (e *ECSError) WithDetails(details string) *ECSError {
	e.Details = details
	return e
}

// Is reports two ECSErrors equal by Code, so errors.Is/errors.As can match a
// freshly constructed error (with its own Entity/System context) against a
// package-level sentinel of the same Code, not just the identical pointer.
func (e *ECSError) Is(target error) bool {
	t, ok := target.(*ECSError)
	return ok && t.Code == e.Code
}

// ==============================================
// Error Taxonomy
// ==============================================

// Structural error codes: the caller always sees these, either as a typed
// *ECSError or via an error-returning method.
const (
	ErrDuplicateComponent   = "DUPLICATE_COMPONENT"    // addComponent of a type already present
	ErrUnknownComponentType = "UNKNOWN_COMPONENT_TYPE" // registry lookup failure
	ErrSystemAlreadyAttached = "SYSTEM_ALREADY_ATTACHED" // addSystem name collision
	ErrUnknownSystem        = "UNKNOWN_SYSTEM"         // registry lookup failure on system create
	ErrEntityNotFound       = "ENTITY_NOT_FOUND"       // entity does not exist
	ErrComponentNotFound    = "COMPONENT_NOT_FOUND"    // component not attached to entity

	// Skill-system activation failures (§4.15).
	ErrSkillNotFound         = "SKILL_NOT_FOUND"
	ErrSkillNotActive        = "SKILL_NOT_ACTIVE"
	ErrSkillOnCooldown       = "SKILL_ON_COOLDOWN"
	ErrRequirementsNotMet    = "REQUIREMENTS_NOT_MET"
	ErrEvolutionUnavailable  = "EVOLUTION_UNAVAILABLE"

	// Economy failures (§4.12) — returned as a non-nil *ECSError error, non-fatal.
	ErrInsufficientResources = "INSUFFICIENT_RESOURCES"
	ErrInsufficientStock     = "INSUFFICIENT_STOCK"
	ErrInventoryFull         = "INVENTORY_FULL"

	// Activation with no valid targets — non-fatal, returned by ActivateSkill.
	ErrEmptyTargetList = "EMPTY_TARGET_LIST"

	// Shop/transfer validation failures (§4.12).
	ErrShopNotFound  = "SHOP_NOT_FOUND"
	ErrItemNotFound  = "ITEM_NOT_FOUND"
	ErrInvalidAmount = "INVALID_AMOUNT"
)

// ==============================================
// Constructors
// ==============================================

// NewECSError creates a bare ECSError stamped with the current time.
func NewECSError(code, message string) *ECSError {
	return &ECSError{Code: code, Message: message, Timestamp: time.Now()}
}

// NewEntityError creates an entity-scoped ECSError.
func NewEntityError(code, message string, entity EntityID) *ECSError {
	return &ECSError{Code: code, Message: message, Entity: entity, Timestamp: time.Now()}
}

// NewComponentError creates a component-scoped ECSError.
func NewComponentError(code, message string, entity EntityID, componentType ComponentType) *ECSError {
	return &ECSError{
		Code:      code,
		Message:   message,
		Entity:    entity,
		Component: string(componentType),
		Timestamp: time.Now(),
	}
}

// NewSystemError creates a system-scoped ECSError.
func NewSystemError(code, message string, system SystemName) *ECSError {
	return &ECSError{Code: code, Message: message, System: string(system), Timestamp: time.Now()}
}

// ==============================================
// Classifiers
// ==============================================

// IsEntityNotFound reports whether err is an entity-not-found ECSError.
func IsEntityNotFound(err error) bool {
	e, ok := err.(*ECSError)
	return ok && e.Code == ErrEntityNotFound
}

// IsComponentNotFound reports whether err is a component-not-found ECSError.
func IsComponentNotFound(err error) bool {
	e, ok := err.(*ECSError)
	return ok && e.Code == ErrComponentNotFound
}

// IsSystemError reports whether err originates from system registration.
func IsSystemError(err error) bool {
	e, ok := err.(*ECSError)
	if !ok {
		return false
	}
	return e.Code == ErrSystemAlreadyAttached || e.Code == ErrUnknownSystem
}

// ==============================================
// Predefined Errors
// ==============================================

// DuplicateComponentErr reports addComponent of a type already present on entity.
func DuplicateComponentErr(entity EntityID, t ComponentType) *ECSError {
	return NewComponentError(ErrDuplicateComponent,
		fmt.Sprintf("component %s already present on entity %d", t, entity), entity, t)
}

// UnknownComponentTypeErr reports a registry lookup failure for an unregistered type.
func UnknownComponentTypeErr(t ComponentType) *ECSError {
	return NewComponentError(ErrUnknownComponentType,
		fmt.Sprintf("component type %q is not registered", t), InvalidEntityID, t)
}

// SystemAlreadyAttachedErr reports an addSystem name collision.
func SystemAlreadyAttachedErr(name SystemName) *ECSError {
	return NewSystemError(ErrSystemAlreadyAttached,
		fmt.Sprintf("system %q is already attached", name), name)
}

// UnknownSystemErr reports a registry lookup failure on system lookup/removal.
func UnknownSystemErr(name SystemName) *ECSError {
	return NewSystemError(ErrUnknownSystem, fmt.Sprintf("system %q is not attached", name), name)
}

// EntityNotFoundErr reports that id does not name a live entity.
func EntityNotFoundErr(id EntityID) *ECSError {
	return NewEntityError(ErrEntityNotFound, fmt.Sprintf("entity %d not found", id), id)
}

// ComponentNotFoundErr reports that entity has no component of type t.
func ComponentNotFoundErr(entity EntityID, t ComponentType) *ECSError {
	return NewComponentError(ErrComponentNotFound,
		fmt.Sprintf("entity %d has no %s component", entity, t), entity, t)
}

// SkillNotFoundErr reports that skillID names neither an owned skill nor a
// registered template for entity.
func SkillNotFoundErr(system SystemName, entity EntityID, skillID string) *ECSError {
	return NewEntityError(ErrSkillNotFound, fmt.Sprintf("skill %q not found", skillID), entity).WithSystem(system)
}

// SkillNotActiveErr reports an ActivateSkill call against a passive skill.
func SkillNotActiveErr(system SystemName, entity EntityID, skillID string) *ECSError {
	return NewEntityError(ErrSkillNotActive, fmt.Sprintf("skill %q is not active", skillID), entity).WithSystem(system)
}

// SkillOnCooldownErr reports an ActivateSkill call before skillID's cooldown
// has elapsed.
func SkillOnCooldownErr(system SystemName, entity EntityID, skillID string) *ECSError {
	return NewEntityError(ErrSkillOnCooldown, fmt.Sprintf("skill %q is on cooldown", skillID), entity).WithSystem(system)
}

// RequirementsNotMetErr reports that entity lacks a skill's prerequisites.
func RequirementsNotMetErr(system SystemName, entity EntityID, skillID string) *ECSError {
	return NewEntityError(ErrRequirementsNotMet, fmt.Sprintf("requirements not met for %q", skillID), entity).WithSystem(system)
}

// EvolutionUnavailableErr reports an EvolveSkill call that does not resolve
// to a known evolution path.
func EvolutionUnavailableErr(system SystemName, entity EntityID, skillID, intoID string) *ECSError {
	return NewEntityError(ErrEvolutionUnavailable,
		fmt.Sprintf("%q cannot evolve into %q", skillID, intoID), entity).WithSystem(system)
}

// InsufficientResourcesErr reports that an inventory lacks enough of a
// resource kind to cover a cost (§4.12).
func InsufficientResourcesErr(system SystemName, entity EntityID, resourceKind string) *ECSError {
	return NewEntityError(ErrInsufficientResources,
		fmt.Sprintf("insufficient %s", resourceKind), entity).WithSystem(system)
}

// InsufficientStockErr reports that a shop item's bounded stock is exhausted.
func InsufficientStockErr(system SystemName, entity EntityID, itemID string) *ECSError {
	return NewEntityError(ErrInsufficientStock,
		fmt.Sprintf("item %q is out of stock", itemID), entity).WithSystem(system)
}

// InventoryFullErr reports that an inventory has no room for an added item.
func InventoryFullErr(system SystemName, entity EntityID) *ECSError {
	return NewEntityError(ErrInventoryFull, "inventory is full", entity).WithSystem(system)
}

// EmptyTargetListErr reports that an activation resolved to zero targets.
func EmptyTargetListErr(system SystemName, entity EntityID) *ECSError {
	return NewEntityError(ErrEmptyTargetList, "no valid targets", entity).WithSystem(system)
}

// ShopNotFoundErr reports that shopID names no registered catalogue.
func ShopNotFoundErr(system SystemName, shopID string) *ECSError {
	return NewSystemError(ErrShopNotFound, fmt.Sprintf("shop %q not found", shopID), system)
}

// ItemNotFoundErr reports that itemID is not sold by shopID, or not held by
// the entity a transfer names.
func ItemNotFoundErr(system SystemName, entity EntityID, itemID string) *ECSError {
	return NewEntityError(ErrItemNotFound, fmt.Sprintf("item %q not found", itemID), entity).WithSystem(system)
}

// InvalidAmountErr reports a non-positive transfer amount.
func InvalidAmountErr(system SystemName, amount float64) *ECSError {
	return NewSystemError(ErrInvalidAmount, fmt.Sprintf("amount must be positive, got %v", amount), system)
}
