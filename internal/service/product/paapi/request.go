package paapi

import "encoding/json"

const (
	getItemsPath   = "/paapi5/getitems"
	getItemsTarget = "com.amazon.paapi5.v1.ProductAdvertisingAPIv1.GetItems"

	contentType     = "application/json; charset=utf-8"
	contentEncoding = "amz-1.0"
	partnerType     = "Associates"
)

// getItemsResources 상품 정보 조회 시 요청하는 리소스 목록
var getItemsResources = []string{
	"Images.Primary.Large",
	"ItemInfo.Title",
	"ItemInfo.Features",
	"Offers.Listings.Price",
	"Offers.Listings.SavingBasis",
	"CustomerReviews.StarRating",
	"CustomerReviews.Count",
}

type getItemsRequest struct {
	ItemIDs     []string `json:"ItemIds"`
	Resources   []string `json:"Resources"`
	PartnerTag  string   `json:"PartnerTag"`
	PartnerType string   `json:"PartnerType"`
	Marketplace string   `json:"Marketplace"`
}

func newGetItemsPayload(identifier, partnerTag, marketplace string) ([]byte, error) {
	return json.Marshal(getItemsRequest{
		ItemIDs:     []string{identifier},
		Resources:   getItemsResources,
		PartnerTag:  partnerTag,
		PartnerType: partnerType,
		Marketplace: marketplace,
	})
}
