package validations

import (
	"context"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	domainVerify "github.com/Rutvik2598/PostPolice/domains/verify"
	pkgError "github.com/Rutvik2598/PostPolice/pkg/error"
)

func ValidateVerifyClaim(ctx context.Context, request domainVerify.VerifyRequest) error {
	err := validation.ValidateStructWithContext(ctx, &request,
		validation.Field(&request.Content, validation.Required),
	)

	if err != nil {
		return pkgError.ValidationError(err.Error())
	}

	return nil
}
