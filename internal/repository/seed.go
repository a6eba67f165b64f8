package repository

import (
	"github.com/shopspring/decimal"

	"clegacy/internal/model"
)

// SeedProjects returns the fixed demonstration projects written the first
// time the projects collection is read.
func SeedProjects() []model.Project {
	return []model.Project{
		{
			ID:               1,
			Title:            "C para Todos",
			Category:         "Educação",
			Description:      "Curso gratuito de programação em C para iniciantes, com foco em comunidades de baixa renda.",
			Status:           model.ProjectStatusActive,
			Owner:            "João Pedro Oliveira",
			StartDate:        "2024-01-15",
			VolunteerCount:   15,
			BeneficiaryCount: 2000,
			FundingGoal:      decimal.NewFromInt(50000),
			FundingRaised:    decimal.NewFromInt(42000),
			ImpactSummary:    "85% dos formados conseguiram emprego na área de TI",
		},
		{
			ID:               2,
			Title:            "Bootcamp Avançado",
			Category:         "Capacitação Profissional",
			Description:      "Programa intensivo de 12 semanas focado em sistemas embarcados, drivers e programação de baixo nível.",
			Status:           model.ProjectStatusActive,
			Owner:            "Ana Carolina Ferreira",
			StartDate:        "2024-03-01",
			VolunteerCount:   8,
			BeneficiaryCount: 150,
			FundingGoal:      decimal.NewFromInt(80000),
			FundingRaised:    decimal.NewFromInt(75000),
			ImpactSummary:    "150 profissionais formados em 2024",
		},
		{
			ID:               3,
			Title:            "C nas Escolas",
			Category:         "Educação Básica",
			Description:      "Parceria com escolas públicas para introduzir programação no ensino médio.",
			Status:           model.ProjectStatusActive,
			Owner:            "Carlos Eduardo Lima",
			StartDate:        "2024-02-10",
			VolunteerCount:   25,
			BeneficiaryCount: 1500,
			FundingGoal:      decimal.NewFromInt(120000),
			FundingRaised:    decimal.NewFromInt(95000),
			ImpactSummary:    "30 escolas atendidas, 1.500 estudantes",
		},
		{
			ID:               4,
			Title:            "Laboratórios Comunitários",
			Category:         "Infraestrutura",
			Description:      "Criação de espaços equipados com computadores e internet em comunidades carentes.",
			Status:           model.ProjectStatusActive,
			Owner:            "Beatriz Souza Costa",
			StartDate:        "2024-04-05",
			VolunteerCount:   12,
			BeneficiaryCount: 800,
			FundingGoal:      decimal.NewFromInt(200000),
			FundingRaised:    decimal.NewFromInt(150000),
			ImpactSummary:    "8 laboratórios ativos em 5 estados",
		},
		{
			ID:               5,
			Title:            "Biblioteca Digital C",
			Category:         "Preservação de Conhecimento",
			Description:      "Digitalização e disponibilização gratuita de livros clássicos sobre C e documentação histórica.",
			Status:           model.ProjectStatusActive,
			Owner:            "Rafael Almeida Santos",
			StartDate:        "2024-01-20",
			VolunteerCount:   6,
			BeneficiaryCount: 5000,
			FundingGoal:      decimal.NewFromInt(30000),
			FundingRaised:    decimal.NewFromInt(28000),
			ImpactSummary:    "Mais de 500 recursos disponíveis",
		},
	}
}
