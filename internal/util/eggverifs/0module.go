package eggverifs

import "go.uber.org/fx"

func Module() fx.Option {
	return fx.Module("eggverifs", fx.Provide(
		NewSchemaVerifier,
		NewStepOrderVerifier,
		NewDuplicateVerifier,
		NewReferenceVerifier,
		NewEggVerifiers,
	))
}
