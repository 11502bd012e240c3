package loader

import (
	"github.com/tidwall/gjson"
	"github.com/use-agent/offerpage/models"
)

// DecodePayload parses a scrape backend body into a RawOfferPayload.
//
// Only syntactically invalid JSON is an error. Fields of an unexpected
// type are treated as absent, non-string entries of string lists are
// dropped, and image entries that are not objects are dropped. A valid
// document that is not an object yields the empty payload.
func DecodePayload(body []byte) (*models.RawOfferPayload, error) {
	if !gjson.ValidBytes(body) {
		return nil, models.NewOfferError(models.ErrCodeParse, "invalid JSON in offer payload", nil)
	}

	root := gjson.ParseBytes(body)
	if !root.IsObject() {
		return &models.RawOfferPayload{}, nil
	}

	return &models.RawOfferPayload{
		Title:       stringField(root, "title"),
		Headings:    stringList(root, "headings"),
		Description: stringField(root, "description"),
		Paragraphs:  stringList(root, "paragraphs"),
		Bullets:     stringList(root, "bullets"),
		Images:      imageList(root, "images"),
	}, nil
}

func stringField(obj gjson.Result, key string) string {
	v := obj.Get(key)
	if v.Type != gjson.String {
		return ""
	}
	return v.Str
}

func stringList(obj gjson.Result, key string) []string {
	v := obj.Get(key)
	if !v.IsArray() {
		return nil
	}
	var out []string
	v.ForEach(func(_, item gjson.Result) bool {
		if item.Type == gjson.String {
			out = append(out, item.Str)
		}
		return true
	})
	return out
}

func imageList(obj gjson.Result, key string) []models.Image {
	v := obj.Get(key)
	if !v.IsArray() {
		return nil
	}
	var out []models.Image
	v.ForEach(func(_, item gjson.Result) bool {
		if item.IsObject() {
			out = append(out, models.Image{
				Src: stringField(item, "src"),
				Alt: stringField(item, "alt"),
			})
		}
		return true
	})
	return out
}
