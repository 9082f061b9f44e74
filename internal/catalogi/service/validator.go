package service

import (
	"fmt"
	"strings"

	"opencatalogi/internal/catalogi/models"
	"opencatalogi/internal/catalogi/store"
	dErrors "opencatalogi/pkg/domain-errors"
)

// Validation failure reasons, surfaced as structured details on the domain
// error so API clients can distinguish them.
const (
	ReasonIncompleteDefinition  = "incomplete_definition"
	ReasonUnpublishedDependency = "unpublished_dependency"
	ReasonOverlappingValidity   = "overlapping_validity"
)

func validationFailure(reason, message string) *dErrors.Error {
	return dErrors.New(dErrors.CodeBadRequest, message).WithDetail("reason", reason)
}

// publishCandidate is one member of a publish batch: the entity plus the
// version family it must not overlap with.
type publishCandidate struct {
	entity models.Publishable
	family []store.Version
}

// validateZaakTypeChildren enforces the minimum definition a zaaktype needs
// before cases can be started under it: at least one statustype, one roltype
// and one resultaattype.
func validateZaakTypeChildren(counts store.ChildCounts) error {
	var missing []string
	if counts.StatusTypen == 0 {
		missing = append(missing, "statustype")
	}
	if counts.RolTypen == 0 {
		missing = append(missing, "roltype")
	}
	if counts.ResultaatTypen == 0 {
		missing = append(missing, "resultaattype")
	}
	if len(missing) > 0 {
		return validationFailure(ReasonIncompleteDefinition,
			fmt.Sprintf("zaaktype needs at least one of each: %s", strings.Join(missing, ", ")))
	}
	return nil
}

// validateDependenciesPublished rejects the publish when required related
// entities are still drafts. In auto-publish mode the batch members count as
// publishing simultaneously, so drafts inside the batch do not block.
func validateDependenciesPublished(related []models.Publishable, batch map[models.TypeRef]bool) error {
	var blocking []models.TypeRef
	for _, dep := range related {
		if dep.IsConcept() && !batch[dep.Ref()] {
			blocking = append(blocking, dep.Ref())
		}
	}
	if len(blocking) > 0 {
		return validationFailure(ReasonUnpublishedDependency,
			"all related resources should be published").
			WithDetail("blocking", blocking)
	}
	return nil
}

// validateNoOverlap checks the version family invariant: among published
// versions with the same omschrijving in the same catalogus, validity
// intervals must not intersect. Drafts outside the batch do not count;
// batch members count as published.
func validateNoOverlap(candidate publishCandidate, batch map[models.TypeRef]bool) error {
	ref := candidate.entity.Ref()
	validity := candidate.entity.Validity()
	for _, v := range candidate.family {
		if v.ID == ref.ID {
			continue
		}
		published := !v.Concept || batch[models.TypeRef{Kind: ref.Kind, ID: v.ID, Omschrijving: ref.Omschrijving}]
		if !published {
			continue
		}
		if validity.Overlaps(v.Geldigheid) {
			return validationFailure(ReasonOverlappingValidity,
				fmt.Sprintf("%s versions with the same omschrijving may not have overlapping geldigheid", ref.Kind)).
				WithDetail("conflictingVersion", v.ID)
		}
	}
	return nil
}
