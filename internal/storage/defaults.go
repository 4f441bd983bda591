package storage

import "github.com/nicolas1xx/psicoapp/internal/model"

// DefaultProfessionals is the dataset served when the store is unreachable
// or empty. It is injected into the repository at construction so nothing
// mutates a package-level list.
func DefaultProfessionals() []model.Professional {
	return []model.Professional{
		{
			ID:               "psi1",
			Name:             "Dr. Lucas Mendes",
			Gender:           "M",
			SessionPrice:     180.00,
			ShortDescription: "Especialista em Ansiedade e Terapia Cognitivo-Comportamental (TCC) e Estresse.",
			Tags:             []string{"TCC", "Ansiedade", "Estresse"},
			AvatarFilename:   model.DefaultAvatar,
			Email:            "lucas@psi.com",
		},
		{
			ID:               "psi2",
			Name:             "Dra. Ana Silveira",
			Gender:           "F",
			SessionPrice:     150.00,
			ShortDescription: "Foco em Luto, Trauma, Depressão e Psicanálise. Mais de 10 anos de experiência.",
			Tags:             []string{"Psicanálise", "Luto", "Depressão"},
			AvatarFilename:   model.DefaultAvatar,
			Email:            "ana@psi.com",
		},
		{
			ID:               "psi3",
			Name:             "Dr. Pedro Costa",
			Gender:           "M",
			SessionPrice:     200.00,
			ShortDescription: "Terapia de Casal, Relacionamentos e Abordagem Humanista.",
			Tags:             []string{"Humanista", "Casal", "Relacionamento"},
			AvatarFilename:   model.DefaultAvatar,
			Email:            "pedro@psi.com",
		},
	}
}
