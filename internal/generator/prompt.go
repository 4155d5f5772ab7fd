package generator

const basePrompt = "Add the design to the model wearing a blank T-Shirt. " +
	"Ensure that the design is well fitted for the shirt and that the image " +
	"can be used to advertise the design of the image. " +
	"Keep the design moderately sized on the shirt."

// BuildPrompt returns the generation instruction, with the optional
// user-injected free text appended.
func BuildPrompt(injection string) string {
	if injection == "" {
		return basePrompt
	}
	return basePrompt + " " + injection
}
