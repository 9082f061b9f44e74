// Package notifications delivers change events for catalogi resources to an
// external notification service (Open Notificaties style). Delivery happens
// after the database commit; failures land in a ledger for later inspection
// and replay.
package notifications

import (
	"time"

	"github.com/google/uuid"
)

// Kanaal names the notification channel a resource belongs to.
type Kanaal string

const (
	KanaalZaakTypen             Kanaal = "zaaktypen"
	KanaalBesluitTypen          Kanaal = "besluittypen"
	KanaalInformatieObjectTypen Kanaal = "informatieobjecttypen"
)

// Actie is the change verb carried by an event.
type Actie string

const (
	ActieCreate  Actie = "create"
	ActieUpdate  Actie = "update"
	ActieDestroy Actie = "destroy"
)

// Event is the wire payload POSTed to the notification service. Field names
// and casing follow the notificatie API contract.
type Event struct {
	Kanaal       Kanaal            `json:"kanaal"`
	HoofdObject  string            `json:"hoofdObject"`
	Resource     string            `json:"resource"`
	ResourceURL  string            `json:"resourceUrl"`
	Actie        Actie             `json:"actie"`
	Aanmaakdatum time.Time         `json:"aanmaakdatum"`
	Kenmerken    map[string]string `json:"kenmerken"`
}

// FailedNotification is a ledger entry holding the exact payload that could
// not be delivered, so an operator can replay it unchanged.
type FailedNotification struct {
	ID       uuid.UUID `json:"id"`
	LoggedAt time.Time `json:"loggedAt"`
	Kanaal   Kanaal    `json:"kanaal"`
	Message  Event     `json:"message"`
}
