package shared

// AggregateRoot adds optimistic-lock versioning and pending domain
// events on top of Entity.
type AggregateRoot interface {
	Entity
	GetVersion() int
	IncrementVersion()
	AddDomainEvent(event DomainEvent)
	GetDomainEvents() []DomainEvent
	ClearDomainEvents()
}

// BaseAggregateRoot is embedded by every aggregate. Pending events are
// collected on the struct and drained by the application service after
// a successful save.
type BaseAggregateRoot struct {
	BaseEntity
	Version      int           `gorm:"not null;default:1"`
	domainEvents []DomainEvent `gorm:"-"`
}

// NewBaseAggregateRoot starts an aggregate at version 1 with no
// pending events.
func NewBaseAggregateRoot() BaseAggregateRoot {
	return BaseAggregateRoot{BaseEntity: NewBaseEntity(), Version: 1}
}

func (r *BaseAggregateRoot) GetVersion() int { return r.Version }

func (r *BaseAggregateRoot) IncrementVersion() { r.Version++ }

// AddDomainEvent queues an event for publication after persistence.
func (r *BaseAggregateRoot) AddDomainEvent(event DomainEvent) {
	r.domainEvents = append(r.domainEvents, event)
}

func (r *BaseAggregateRoot) GetDomainEvents() []DomainEvent { return r.domainEvents }

func (r *BaseAggregateRoot) ClearDomainEvents() { r.domainEvents = nil }
