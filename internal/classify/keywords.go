package classify

import "flyergen/internal/domain"

type keywordEntry struct {
	tag      domain.NicheTag
	keywords []string
}

// keywordTable is matched in order; the first hit wins, so more specific
// niches come before broader ones. Keywords are lowercase and cover the
// Portuguese and English vocabulary seen in real profiles.
var keywordTable = []keywordEntry{
	{
		tag: domain.NicheFoodService,
		keywords: []string{
			"pizza", "pizzaria", "restaurante", "restaurant", "lanchonete",
			"hamburgue", "burger", "padaria", "bakery", "confeitaria",
			"doceria", "marmita", "comida", "food", "cafeteria", "café",
			"churrasc", "acaí", "sorvete", "salgado",
		},
	},
	{
		tag: domain.NicheAutomotive,
		keywords: []string{
			"oficina", "mecânic", "mecanic", "auto", "carro", "car repair",
			"funilaria", "lanternagem", "pneu", "tire", "borracharia",
			"estética automotiva", "lava jato", "lava-jato", "motorcycle",
			"moto",
		},
	},
	{
		tag: domain.NicheBeauty,
		keywords: []string{
			"salão", "salao", "beleza", "beauty", "cabelo", "hair",
			"barbearia", "barber", "manicure", "unha", "nail", "estética",
			"estetica", "maquiagem", "makeup", "sobrancelha", "cílios",
			"depilação",
		},
	},
	{
		tag: domain.NicheFitness,
		keywords: []string{
			"academia", "gym", "fitness", "crossfit", "pilates", "yoga",
			"personal trainer", "musculação", "treino", "funcional",
			"artes marciais", "jiu-jitsu", "natação",
		},
	},
	{
		tag: domain.NicheProfessional,
		keywords: []string{
			"advocacia", "advogad", "lawyer", "contabilidade", "contador",
			"accounting", "consultoria", "consulting", "corretor",
			"imobiliária", "imobiliaria", "arquitet", "engenharia",
			"clínica", "clinica", "dentista", "psicólog", "psicolog",
		},
	},
}
