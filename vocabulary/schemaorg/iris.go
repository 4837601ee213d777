package schemaorg

// Namespace is the canonical Schema.org IRI prefix.
const Namespace = "https://schema.org/"

// LegacyNamespace is the http:// prefix still emitted by many publishers.
const LegacyNamespace = "http://schema.org/"

// Class names.
const (
	ClassProduct        = "Product"
	ClassProductGroup   = "ProductGroup"
	ClassOffer          = "Offer"
	ClassAggregateOffer = "AggregateOffer"
	ClassPropertyValue  = "PropertyValue"
	ClassBrand          = "Brand"
	ClassImageObject    = "ImageObject"
	ClassBreadcrumbList = "BreadcrumbList"
	ClassListItem       = "ListItem"
	ClassDataDownload   = "DataDownload"
	ClassDataset        = "Dataset"

	// ClassOrganization and its subtypes recognized as the publishing organization.
	ClassOrganization  = "Organization"
	ClassCorporation   = "Corporation"
	ClassOnlineStore   = "OnlineStore"
	ClassLocalBusiness = "LocalBusiness"
)

// OrganizationClasses lists the types treated as an organization, most
// general first.
var OrganizationClasses = []string{
	ClassOrganization,
	ClassCorporation,
	ClassOnlineStore,
	ClassLocalBusiness,
}

// Property names.
const (
	PropName               = "name"
	PropDescription        = "description"
	PropURL                = "url"
	PropSKU                = "sku"
	PropGTIN               = "gtin"
	PropImage              = "image"
	PropLogo               = "logo"
	PropSameAs             = "sameAs"
	PropBrand              = "brand"
	PropProductGroupID     = "productGroupID"
	PropVariesBy           = "variesBy"
	PropHasVariant         = "hasVariant"
	PropIsVariantOf        = "isVariantOf"
	PropOffers             = "offers"
	PropPrice              = "price"
	PropLowPrice           = "lowPrice"
	PropPriceCurrency      = "priceCurrency"
	PropAvailability       = "availability"
	PropAdditionalProperty = "additionalProperty"
	PropValue              = "value"
	PropPropertyID         = "propertyID"
	PropItemListElement    = "itemListElement"
	PropItem               = "item"
	PropPosition           = "position"
	PropDistribution       = "distribution"
	PropContentURL         = "contentUrl"
	PropEncodingFormat     = "encodingFormat"
	PropLicense            = "license"
	PropColor              = "color"
	PropSize               = "size"
)
