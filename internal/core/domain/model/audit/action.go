package audit

import (
	"fmt"

	"ordertracker/internal/core/domain/model/order"
	"ordertracker/internal/pkg/errs"
)

type Kind int

const (
	KindUnknown Kind = iota
	KindOrderCreated
	KindBuyerAssociated
	KindSellerAssociated
	KindStageAdvanced
	KindOrderDeleted
)

var kindNames = map[Kind]string{
	KindOrderCreated:     "order_created",
	KindBuyerAssociated:  "buyer_associated",
	KindSellerAssociated: "seller_associated",
	KindStageAdvanced:    "stage_advanced",
	KindOrderDeleted:     "order_deleted",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "unknown"
}

// Action is what happened to an order. Stage is set only for KindStageAdvanced.
type Action struct {
	kind  Kind
	stage order.Stage
}

func OrderCreated() Action     { return Action{kind: KindOrderCreated} }
func BuyerAssociated() Action  { return Action{kind: KindBuyerAssociated} }
func SellerAssociated() Action { return Action{kind: KindSellerAssociated} }
func OrderDeleted() Action     { return Action{kind: KindOrderDeleted} }

func StageAdvanced(to order.Stage) Action {
	return Action{kind: KindStageAdvanced, stage: to}
}

// RestoreAction rebuilds an action from its stored kind and stage.
func RestoreAction(kind Kind, stage order.Stage) (Action, error) {
	a := Action{kind: kind}
	if kind == KindStageAdvanced {
		a.stage = stage
	}
	if err := a.Validate(); err != nil {
		return Action{}, err
	}
	return a, nil
}

func (a Action) Kind() Kind {
	return a.kind
}

// Stage is the stage entered by a KindStageAdvanced action, Unknown otherwise.
func (a Action) Stage() order.Stage {
	return a.stage
}

func (a Action) Validate() error {
	if _, ok := kindNames[a.kind]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("action", fmt.Errorf("%d is not a valid action kind", a.kind))
	}
	if a.kind == KindStageAdvanced {
		if err := a.stage.Validate(); err != nil {
			return errs.NewValueIsInvalidErrorWithCause("action", err)
		}
	}
	return nil
}

func (a Action) String() string {
	switch a.kind {
	case KindOrderCreated:
		return "Order Created"
	case KindBuyerAssociated:
		return "Buyer Associated"
	case KindSellerAssociated:
		return "Seller Associated"
	case KindStageAdvanced:
		return "Stage changed to " + a.stage.String()
	case KindOrderDeleted:
		return "Order Deleted"
	default:
		return "Unknown"
	}
}
