package app

const (
	Title = "Teeth Disease Classification"
	Intro = "Upload an image to classify and get detailed predictions."
)

// HelpSteps краткая инструкция, общая для бота и веб-страницы.
var HelpSteps = []string{
	"Upload an image of a tooth condition.",
	"The model will classify the image and provide the most likely disease classification.",
	"View the prediction result and probabilities for each class.",
	"Get a brief description of the predicted class.",
}
