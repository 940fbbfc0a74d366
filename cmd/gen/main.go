package main

import (
	"unified-push-server/internal/infra/persistence/model"

	"gorm.io/gen"
)

func main() {
	models := []any{
		model.ApplicationModel{},
		model.VariantModel{},
		model.InstallationModel{},
		model.PushMessageInformationModel{},
		model.VariantMetricInformationModel{},
		model.VariantErrorStatusModel{},
	}

	gen := gen.NewGenerator(gen.Config{
		OutPath: "./internal/infra/persistence/postgres/query",
	})

	gen.ApplyBasic(models...)

	gen.Execute()
}
