// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package patterns

// personalTriggers returns the phrases that indicate the requester is
// speaking about their own record rather than an institutional matter. All
// entries are lowercase; the heuristics do a case-folded substring test.
func personalTriggers() []string {
	return []string{
		"me chamo",
		"meu nome é",
		"sou ",
		"fui ",
		"trabalhei",
		"necessito",
		"solicitei",
		"recebi",
		"bolsa",
		"vaga de emprego",
		"meu imóvel",
		"minha casa",
		"minha residência",
		"meu endereço",
		"onde moro",
		"onde resido",
	}
}

// publicEntityNames lists public-body names that must never be treated as
// personal names, no matter how name-shaped they look.
var publicEntityNames = []string{
	"prefeitura municipal",
	"ministério público",
	"tribunal de contas",
	"tribunal de justiça",
	"secretaria municipal",
	"secretaria estadual",
	"governo do estado",
	"governo federal",
	"assembleia legislativa",
	"câmara municipal",
	"universidade federal",
	"universidade estadual",
	"instituto federal",
	"defensoria pública",
	"receita federal",
	"polícia federal",
	"polícia civil",
	"polícia militar",
	"junta comercial",
	"diário oficial",
}

// signatureStopTokens are discarded from a signature-block line before the
// name candidate is extracted.
var signatureStopTokens = []string{
	"atenciosamente",
	"cordialmente",
	"respeitosamente",
	"att",
	"atte",
	"at.te",
	"sds",
	"abs",
	"obrigado",
	"obrigada",
	"grato",
	"grata",
}

// institutionalNameTokens are tokens that disqualify a capitalized run from
// being a human name: place names, institutional nouns and technical terms
// that recur in public-records requests.
var institutionalNameTokens = []string{
	"administração",
	"gestão",
	"programa",
	"secretaria",
	"departamento",
	"município",
	"municipal",
	"prefeitura",
	"governo",
	"estado",
	"federal",
	"estadual",
	"instituto",
	"fundação",
	"universidade",
	"faculdade",
	"conselho",
	"comissão",
	"diretoria",
	"coordenadoria",
	"superintendência",
	"ouvidoria",
	"controladoria",
	"procuradoria",
	"relatório",
	"processo",
	"sistema",
	"portal",
	"edital",
	"licitação",
	"contrato",
	"convênio",
	"integridade",
	"transparência",
	"informação",
	"brasil",
	"brasília",
	"minas",
	"gerais",
	"bahia",
	"paraná",
	"pernambuco",
	"ceará",
}
