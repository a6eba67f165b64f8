package service

import "clegacy/internal/model"

// Demo account passwords. SeedDemoUsers stores them hashed.
const (
	DemoAdminPassword     = "admin123"
	DemoVolunteerPassword = "voluntario123"
)

// DemoUsers returns one administrator and five volunteers with plain-text
// passwords.
func DemoUsers() []model.User {
	volunteer := func(id int, name, email, nationalID, phone, birth string, addr model.Address, interest, skill, availability, created, last string, hours, projects int) model.User {
		return model.User{
			ID: id, Name: name, Email: email, Password: DemoVolunteerPassword,
			Role: model.RoleVolunteer, Active: true, CreatedAt: created, LastAccess: last,
			Phone: phone, NationalID: nationalID, BirthDate: birth, Address: &addr,
			Interest: interest, SkillLevel: skill, Availability: availability,
			VolunteerHours: hours, ProjectsParticipated: projects,
		}
	}

	return []model.User{
		{
			ID: 1, Name: "Maria Silva Santos", Email: "admin@clegacy.org", Password: DemoAdminPassword,
			Role: model.RoleAdmin, Active: true, CreatedAt: "2024-01-15",
			NationalID: "123.456.789-00", Phone: "(11) 98765-4321",
		},
		volunteer(2, "João Pedro Oliveira", "joao.oliveira@email.com", "234.567.890-11", "(11) 97654-3210", "1995-03-20",
			model.Address{PostalCode: "01310-100", Street: "Av. Paulista", Number: "1000", Complement: "Apto 101", City: "São Paulo", State: "SP"},
			"voluntario-instrutor", "avancado", "8h", "2024-02-10", "2025-10-28", 120, 5),
		volunteer(3, "Ana Carolina Ferreira", "ana.ferreira@email.com", "345.678.901-22", "(21) 96543-2109", "1992-07-15",
			model.Address{PostalCode: "20040-020", Street: "Av. Rio Branco", Number: "156", City: "Rio de Janeiro", State: "RJ"},
			"voluntario-mentor", "expert", "12h", "2024-03-05", "2025-10-29", 200, 8),
		volunteer(4, "Carlos Eduardo Lima", "carlos.lima@email.com", "456.789.012-33", "(31) 95432-1098", "1998-11-30",
			model.Address{PostalCode: "30130-010", Street: "Av. Afonso Pena", Number: "867", Complement: "Sala 5", City: "Belo Horizonte", State: "MG"},
			"voluntario-conteudo", "intermediario", "4h", "2024-04-20", "2025-10-27", 80, 3),
		volunteer(5, "Beatriz Souza Costa", "beatriz.costa@email.com", "567.890.123-44", "(41) 94321-0987", "1990-05-08",
			model.Address{PostalCode: "80010-000", Street: "Rua XV de Novembro", Number: "500", City: "Curitiba", State: "PR"},
			"voluntario-suporte", "avancado", "8h", "2024-05-12", "2025-10-29", 150, 6),
		volunteer(6, "Rafael Almeida Santos", "rafael.santos@email.com", "678.901.234-55", "(85) 93210-9876", "1994-09-25",
			model.Address{PostalCode: "60060-440", Street: "Av. Beira Mar", Number: "3000", Complement: "Bloco A", City: "Fortaleza", State: "CE"},
			"voluntario-instrutor", "avancado", "12h", "2024-06-18", "2025-10-26", 180, 7),
	}
}
