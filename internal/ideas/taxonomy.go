// Orbitstats - Entrepreneurship Tool Usage and Course Evaluation Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/orbitstats

package ideas

// Categories is the closed list an idea can be categorized into.
var Categories = []string{
	"Administrative Services",
	"Agriculture and Farming",
	"Angel Investing",
	"Apps",
	"Artificial Intelligence",
	"Arts",
	"Biotechnology",
	"Climate Tech",
	"Clothing and Apparel",
	"Commerce and Shopping",
	"Community and Lifestyle",
	"Construction",
	"Consumer Electronics",
	"Consumer Goods",
	"Content and Publishing",
	"Corporate Services",
	"Data Analytics",
	"Design",
	"Education",
	"Energy",
	"Entertainment",
	"Events",
	"Financial Services",
	"Food and Beverage",
	"Gaming",
	"Government and Military",
	"Hardware",
	"Health Care",
	"Information Technology",
	"Internet Services",
	"Lending and Investments",
	"Manufacturing",
	"Media and Entertainment",
	"Mobile",
	"Music and Audio",
	"Natural Resources",
	"Navigation and Mapping",
	"Payments",
	"Platforms",
	"Privacy and Security",
	"Private Equity",
	"Professional Services",
	"Public Admin and Safety",
	"Real Estate",
	"Retail",
	"Sales and Marketing",
	"Science and Engineering",
	"Social and Non-Profit",
	"Software",
	"Sports",
	"Sustainability",
	"Transportation",
	"Travel and Tourism",
	"Venture Capital",
}

// Uncategorized labels ideas without a category.
const Uncategorized = "Uncategorized"

// DomainOther collects categories no domain lists.
const DomainOther = "Other"

// Domain is a high-level grouping of categories.
type Domain struct {
	Name       string
	Categories []string
}

// Domains is checked in order; a category belongs to the first domain that
// lists it.
var Domains = []Domain{
	{"Technology", []string{
		"Artificial Intelligence", "Software", "Hardware", "Data Analytics",
		"Information Technology", "Mobile", "Apps", "Platforms",
		"Internet Services", "Robotics",
	}},
	{"Business Services", []string{
		"Corporate Services", "Professional Services", "Administrative Services",
		"Consulting", "Sales and Marketing", "Financial Services",
	}},
	{"Consumer", []string{
		"Consumer Goods", "Consumer Electronics", "Commerce and Shopping",
		"Clothing and Apparel", "Food and Beverage", "Consumer Services", "Retail",
	}},
	{"Health & Science", []string{
		"Biotechnology", "Health Care", "Science and Engineering",
		"Medical Devices", "Pharmaceuticals",
	}},
	{"Media & Entertainment", []string{
		"Media and Entertainment", "Content and Publishing",
		"Entertainment", "Music and Audio", "Gaming",
	}},
	{"Education", []string{"Education", "E-Learning", "EdTech"}},
	{"Sustainability", []string{"Climate Tech", "Sustainability", "Energy", "Renewable Energy"}},
	{"Finance", []string{
		"Financial Services", "Lending and Investments", "Payments",
		"Insurance", "Banking", "Cryptocurrency", "Venture Capital", "Private Equity",
	}},
}

var (
	knownCategories  = make(map[string]struct{}, len(Categories))
	domainByCategory = make(map[string]string)
)

func init() {
	for _, c := range Categories {
		knownCategories[c] = struct{}{}
	}
	for _, d := range Domains {
		for _, c := range d.Categories {
			if _, ok := domainByCategory[c]; !ok {
				domainByCategory[c] = d.Name
			}
		}
	}
}

// IsKnown reports whether category is in Categories.
func IsKnown(category string) bool {
	_, ok := knownCategories[category]
	return ok
}

// DomainOf returns the domain of a category, or DomainOther.
func DomainOf(category string) string {
	if d, ok := domainByCategory[category]; ok {
		return d
	}
	return DomainOther
}
