package service

import "fmt"

const (
	brandIdentityPrompt = "Create a complete brand identity including brand name, tagline, mission statement, brand values, tone of voice, color palette, and typography suggestions."

	brandSocialPrompt = "Create 5 social media post ideas with captions and hashtags for brand promotion."

	businessPlanPrompt = "Create a comprehensive business plan including executive summary, market analysis, marketing strategy, operational plan, and financial projections."
)

func logoDescriptionPrompt(businessName, industry string) string {
	return fmt.Sprintf("Create a detailed logo description for %s in the %s industry. Focus on symbolism and professional design.", businessName, industry)
}

func platformPostsPrompt(platform, businessName string) string {
	return fmt.Sprintf("Create 3 engaging %s posts for %s. Include captions and relevant hashtags.", platform, businessName)
}

func platformBannerPrompt(platform, businessName, industry string) string {
	return fmt.Sprintf("Professional social media banner for %s on %s. Business in %s industry.", businessName, platform, industry)
}

func websiteSectionPrompt(section string) string {
	return fmt.Sprintf("Create engaging %s section content for a business website. Include headline, subheadline, and body content.", section)
}

var socialPlatforms = []string{"Facebook", "Instagram", "Twitter", "LinkedIn"}

var websiteSections = []string{"hero", "about", "services", "testimonials", "contact"}

var websiteTemplateSuggestions = []string{"modern", "professional", "minimalist", "corporate"}
