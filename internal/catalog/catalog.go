// Package catalog holds the static value lists the requisition form is
// built from. The lists mirror the Oracle ESOM catalogs and are not meant
// to be edited at runtime.
package catalog

// Sentinel is the placeholder option of every select field. A required
// field still holding Sentinel fails validation.
const Sentinel = "Selecione"

var Locations = []string{
	"ESOM_F_CATU_OI",
	"ESOM_F_CAMACARI_OI",
	"ESOM_F_ITABUNA_OI",
	"ESOM_F_PILAR_OI",
	"ESOM_F_ATALAIA_OI",
}

var OriginTypes = []string{
	"Fornecedor",
	"Estoque",
}

var AgreementTypes = []string{
	"Acordo de compra contratual",
	"Acordo de compra em aberto",
}

var DestinationTypes = []string{
	"Estoque",
	"Despesa",
}

var SubInventories = []string{
	"Insumo",
	"Consumo",
	"EPI",
	"Reparo",
	"Stage",
	"Sucata",
	"TAG",
}

var UsageIntents = []string{
	"SOLUC_ATIVO IMOBILIZADO",
	"SOLUC_USO E CONSUMO",
	"SOLUC_SERVICO",
	"SOLUC_INSUMO PRESTCAO DE SERVICO",
}

var Objectives = []string{
	"ATIVO IMOBILIZADO",
	"FERRAMENTAS",
	"MANUTENÇÃO DE EQUIPAMENTOS",
	"MATERIAL CONSUMO",
	"PRESTAÇÃO DE SERVIÇO",
	"SPARE PARTS ESTOQUE",
	"SPARE PARTS INSUMO",
}

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}

// IsSelected reports whether v is a real choice, i.e. neither empty nor
// the Sentinel placeholder.
func IsSelected(v string) bool {
	return v != "" && v != Sentinel
}

func ValidLocation(v string) bool        { return contains(Locations, v) }
func ValidOriginType(v string) bool      { return contains(OriginTypes, v) }
func ValidAgreementType(v string) bool   { return contains(AgreementTypes, v) }
func ValidDestinationType(v string) bool { return contains(DestinationTypes, v) }
func ValidSubInventory(v string) bool    { return contains(SubInventories, v) }
func ValidUsageIntent(v string) bool     { return contains(UsageIntents, v) }
func ValidObjective(v string) bool       { return contains(Objectives, v) }
