package generation

import "fmt"

// titlePrompt asks for one catchy blog title starting with the given number,
// styled after the embedded examples.
func titlePrompt(theme string, numericLead int) string {
	return fmt.Sprintf(
		"Given the theme '%s', generate a catchy blog title that starts with the number %d, following the style of the examples below. "+
			"Ensure the title is no longer than 100 characters, including spaces and punctuation:\n\n"+
			"%d Ways to Elevate Your Home Office Design for Maximum Comfort (You Won't Believe #1!)\n"+
			"%d Nail Art Trends You'll Want to Try This Season (Holiday Magic Alert at #2!)\n"+
			"%d Hidden Gems in Europe Every Traveler Should Visit (Hint: #3 Is Revolutionary!)\n"+
			"Please generate one blog title in this format for the theme '%s', starting with the number %d.",
		theme, numericLead, numericLead, numericLead, numericLead, theme, numericLead,
	)
}

// ideaPrompt asks for idea number i out of total for the given title, in the
// exact Idea:/Description: format ParseIdea expects.
func ideaPrompt(title string, i, total int) string {
	return fmt.Sprintf(
		"Based on the blog title '%s', generate idea number %d out of %d. "+
			"The idea should include a catchy phrase and a detailed description of at least 45 words. "+
			"Format:\nIdea: [Catchy Phrase]\nDescription: [Description]"+
			"Do not include any additional text or formatting outside this format.",
		title, i, total,
	)
}

// descriptionPrompt asks for a short introductory description for the post.
func descriptionPrompt(theme, title string) string {
	return fmt.Sprintf(
		"Generate a brief introductory description for a blog post titled '%s' about '%s'. "+
			"This description should engage the reader and provide context for the ideas that follow. "+
			"Aim for 2-3 sentences and ensure the total length does not exceed 155 characters.",
		title, theme,
	)
}

// keywordsPrompt asks for 6 comma-separated SEO keywords for the pin.
func keywordsPrompt(title, theme string) string {
	return fmt.Sprintf(
		"Based on the blog title '%s' and the theme '%s', generate 6 SEO-friendly keywords. "+
			"These keywords should target Pinterest users looking for ideas or inspiration in this niche. "+
			"Return the keywords separated by commas.",
		title, theme,
	)
}

// ImagePrompt builds the image-synthesis prompt embedding the title, idea and
// description verbatim.
func ImagePrompt(title, idea, description string) string {
	return fmt.Sprintf(
		"Generate a hyper-realistic image based on the title: '%s'. "+
			"Visually represent the idea: '%s' by accurately reflecting the details provided: '%s'. "+
			"Ensure the scene is richly detailed with realistic textures, natural lighting, and a dynamic composition that emphasizes depth and perspective. "+
			"Incorporate vivid, lifelike colors and pay close attention to small details that enhance the realism and immersion of the image. "+
			"Avoid including text, watermarks, or elements not explicitly described, and prioritize a clean, polished presentation.",
		title, idea, description,
	)
}
