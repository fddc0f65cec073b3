package validations

import (
	"context"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	domainCache "github.com/Rutvik2598/PostPolice/domains/cache"
	pkgError "github.com/Rutvik2598/PostPolice/pkg/error"
)

func ValidateCheckSummary(ctx context.Context, request domainCache.CheckRequest) error {
	err := validation.ValidateStructWithContext(ctx, &request,
		validation.Field(&request.Content, validation.Required),
	)

	if err != nil {
		return pkgError.ValidationError(err.Error())
	}

	return nil
}

func ValidateCacheSummary(ctx context.Context, request domainCache.StoreRequest) error {
	err := validation.ValidateStructWithContext(ctx, &request,
		validation.Field(&request.Content, validation.Required),
		validation.Field(&request.Summary, validation.Required),
	)

	if err != nil {
		return pkgError.ValidationError(err.Error())
	}

	return nil
}
